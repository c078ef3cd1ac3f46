// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CredentialsRequest: username, password
  - FormRequest: title, formData
  - SubmitResponseRequest: responseData, name

# Response Types

Types for JSON responses:

  - RegisterResponse: message, token
  - LoginResponse: token
  - CreateFormResponse: message, formId
  - ListFormsResponse: forms
  - UpdateFormResponse: message, updatedForm
  - DeleteFormResponse: message, deletedForm
  - ListResponsesResponse: responses
  - ErrorResponse: error, message

# Domain Types

  - Account: registered user, password hash is never serialized
  - Form: owned list of field definitions plus response ids
  - Response: one submission against a form

# Opaque Values

Form field definitions and submitted answers are carried as json.RawMessage.
The server stores and returns them verbatim and never looks inside:

	form.FormData = []json.RawMessage{json.RawMessage(`{"q":"name"}`)}
*/
package models
