// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Form API.

# Handler Types

Each handler is a struct holding a db.Store:

  - AccountHandler: Registration and login (also holds the token issuer)
  - FormHandler: Form CRUD, public view, response listing
  - ResponseHandler: Response submission

	formHandler := handlers.NewFormHandler(store)

# Authentication

Routes behind middleware.RequireAuth read the caller with
middleware.AccountIDFromContext. Update, delete and response listing
answer 403 unless the caller owns the form. Reads of a single form are
open to any caller so the form can be shared.

# Submissions

A submission writes the response first and then appends its ID to the
form:

	POST /addFormResponse/{formId} → CreateResponse, AppendFormResponse

If the form does not exist the append fails with db.ErrNotFound and the
handler answers 404, leaving the stored response without a parent.

# Error Handling

All handlers return consistent JSON errors:

	{"error": "Not Found", "message": "Form not found"}

Common status codes:

  - 400: Invalid JSON, missing credentials, username taken
  - 401: Missing or invalid token, bad credentials
  - 403: Caller does not own the form
  - 404: Form not found
  - 500: Storage failure
*/
package handlers
