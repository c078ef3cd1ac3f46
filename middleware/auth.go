// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/db"
	"github.com/danielhkuo/quickly-form/models"
)

type authCtxKey int

const (
	accountKey authCtxKey = iota
	accountIDKey
)

// TokenVerifier resolves a session token to an account ID
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AccountGetter looks up the account a token names
type AccountGetter interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// RequireAuth rejects requests without a valid bearer token for an existing
// account, and otherwise attaches the account to the request context
func RequireAuth(tokens TokenVerifier, accounts AccountGetter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			credential, err := auth.ParseAuthorization(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, "Authorization header required")
				return
			}

			accountID, err := tokens.Verify(credential)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			account, err := accounts.GetAccount(r.Context(), accountID)
			if errors.Is(err, db.ErrNotFound) {
				unauthorized(w, "Invalid or expired token")
				return
			}
			if err != nil {
				slog.Error("failed to look up account", "account_id", accountID, "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			ctx = context.WithValue(ctx, accountIDKey, accountID)
			next(w, r.WithContext(ctx))
		}
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	ErrorResponse(w, http.StatusUnauthorized, message)
}

// AccountFromContext returns the account attached by RequireAuth
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	return account, ok
}

// AccountIDFromContext returns the authenticated account ID
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}
