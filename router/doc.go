// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Form API.

# Route Registration

NewRouter creates a configured handler with all endpoints, wrapped in CORS
for the configured client origin:

	handler := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Accounts (public):

	POST /register - Create account, returns token
	POST /login    - Exchange credentials for token

Form management (requires Authorization: Bearer <token>):

	GET    /getForms               - List caller's forms
	GET    /getFormData/{formId}   - Get any form
	POST   /updateFormData/{id}    - Replace title and fields (owner only)
	POST   /addFormData            - Create form
	DELETE /deleteFormData/{id}    - Delete form (owner only)
	GET    /getFormResponses/{id}  - List responses (owner only)

Sharing (public):

	GET  /response/getForms/{id}     - Form for the respondent view
	POST /addFormResponse/{formId}   - Submit a response

# Handler Initialization

The router creates handler instances with dependency injection:

	accountHandler := handlers.NewAccountHandler(store, tokens)
	formHandler := handlers.NewFormHandler(store)
	responseHandler := handlers.NewResponseHandler(store)

All handlers share the store; token signing settings come from cfg.
*/
package router
