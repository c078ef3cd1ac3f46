// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/cliparse"
	"github.com/danielhkuo/quickly-form/db"
	"github.com/danielhkuo/quickly-form/handlers"
	"github.com/danielhkuo/quickly-form/middleware"
)

const healthTimeout = 2 * time.Second

func NewRouter(store db.Store, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	requireAuth := middleware.RequireAuth(tokens, store)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(store, tokens)
	formHandler := handlers.NewFormHandler(store)
	responseHandler := handlers.NewResponseHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public)
	mux.HandleFunc("POST /register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /login", middleware.WithLogging(accountHandler.Login))

	// Form management (bearer token)
	mux.HandleFunc("GET /getForms", middleware.WithLogging(requireAuth(formHandler.ListForms)))
	mux.HandleFunc("GET /getFormData/{formId}", middleware.WithLogging(requireAuth(formHandler.GetForm)))
	mux.HandleFunc("POST /updateFormData/{id}", middleware.WithLogging(requireAuth(formHandler.UpdateForm)))
	mux.HandleFunc("POST /addFormData", middleware.WithLogging(requireAuth(formHandler.CreateForm)))
	mux.HandleFunc("DELETE /deleteFormData/{id}", middleware.WithLogging(requireAuth(formHandler.DeleteForm)))
	mux.HandleFunc("GET /getFormResponses/{id}", middleware.WithLogging(requireAuth(formHandler.ListResponses)))

	// Public form view and submission
	mux.HandleFunc("GET /response/getForms/{id}", middleware.WithLogging(formHandler.GetPublicForm))
	mux.HandleFunc("POST /addFormResponse/{formId}", middleware.WithLogging(responseHandler.Submit))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-form API v1"))
	})

	return middleware.CORS(cfg.ClientOrigin)(mux)
}
