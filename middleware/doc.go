// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /getForms", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication

RequireAuth checks the Authorization header for a signed session token and
loads the account it names:

	requireAuth := middleware.RequireAuth(tokens, store)
	mux.HandleFunc("GET /getForms", requireAuth(formHandler.ListForms))

Inside the handler:

	accountID, _ := middleware.AccountIDFromContext(r.Context())

Missing, malformed and expired tokens and unknown accounts get 401. A
storage failure during the lookup gets 500.

# CORS Middleware

Enable cross-origin requests from the frontend:

	handler := middleware.CORS(cfg.ClientOrigin)(mux)

Allows one origin with credentials, methods GET, POST, PATCH, UPDATE,
DELETE, OPTIONS and headers Content-Type, Authorization. Preflight requests
get 204 without reaching the mux.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.FormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
