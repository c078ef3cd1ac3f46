// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/db"
	"github.com/danielhkuo/quickly-form/middleware"
	"github.com/danielhkuo/quickly-form/models"
)

type AccountHandler struct {
	store  db.Store
	tokens *auth.TokenIssuer
}

func NewAccountHandler(store db.Store, tokens *auth.TokenIssuer) *AccountHandler {
	return &AccountHandler{store: store, tokens: tokens}
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	// Uniqueness is only checked here; there is no index constraint behind it
	_, err := h.store.FindAccountByUsername(r.Context(), req.Username)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "User already exists")
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	account := &models.Account{Username: req.Username, PasswordHash: hash}
	if err := h.store.CreateAccount(r.Context(), account); err != nil {
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		slog.Error("failed to issue token", "account_id", account.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("account registered", "account_id", account.ID, "username", account.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully",
		Token:   token,
	})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	account, err := h.store.FindAccountByUsername(r.Context(), req.Username)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(account.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			slog.Error("failed to compare password", "account_id", account.ID, "error", err)
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		slog.Error("failed to issue token", "account_id", account.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("account logged in", "account_id", account.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Token: token})
}
