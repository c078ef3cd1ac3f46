// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Request types

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// formData is a list of field definitions the server never inspects
type FormRequest struct {
	Title    string            `json:"title"`
	FormData []json.RawMessage `json:"formData"`
}

type SubmitResponseRequest struct {
	ResponseData json.RawMessage `json:"responseData"`
	Name         string          `json:"name"`
}

// Response types

type RegisterResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateFormResponse struct {
	Message string `json:"message"`
	FormID  string `json:"formId"`
}

type ListFormsResponse struct {
	Forms []Form `json:"forms"`
}

type UpdateFormResponse struct {
	Message     string `json:"message"`
	UpdatedForm Form   `json:"updatedForm"`
}

type DeleteFormResponse struct {
	Message     string `json:"message"`
	DeletedForm Form   `json:"deletedForm"`
}

type ListResponsesResponse struct {
	Responses []Response `json:"responses"`
}

// Domain types

type Account struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`                // Never expose in JSON
	FormID       string    `json:"formId,omitempty"` // legacy, never written
	Responses    []string  `json:"responses"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Form struct {
	ID        string            `json:"_id"`
	OwnerID   string            `json:"userId"`
	Title     string            `json:"title"`
	FormData  []json.RawMessage `json:"formData"`
	Responses []string          `json:"responses"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type Response struct {
	ID           string          `json:"_id"`
	FormID       string          `json:"formId"`
	ResponseData json.RawMessage `json:"responseData"`
	Name         string          `json:"name"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
