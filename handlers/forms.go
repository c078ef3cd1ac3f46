// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-form/db"
	"github.com/danielhkuo/quickly-form/middleware"
	"github.com/danielhkuo/quickly-form/models"
)

type FormHandler struct {
	store db.Store
}

func NewFormHandler(store db.Store) *FormHandler {
	return &FormHandler{store: store}
}

// ListForms handles GET /getForms
func (h *FormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	forms, err := h.store.ListFormsByOwner(r.Context(), accountID)
	if err != nil {
		slog.Error("failed to list forms", "account_id", accountID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListFormsResponse{Forms: forms})
}

// GetForm handles GET /getFormData/{formId}
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	h.writeForm(w, r, r.PathValue("formId"))
}

// GetPublicForm handles GET /response/getForms/{id}, the unauthenticated view
// used to render a shared form
func (h *FormHandler) GetPublicForm(w http.ResponseWriter, r *http.Request) {
	h.writeForm(w, r, r.PathValue("id"))
}

func (h *FormHandler) writeForm(w http.ResponseWriter, r *http.Request, formID string) {
	form, ok := h.loadForm(w, r, formID)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, form)
}

// CreateForm handles POST /addFormData
func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req models.FormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	form := &models.Form{
		OwnerID:  accountID,
		Title:    req.Title,
		FormData: req.FormData,
	}
	if err := h.store.CreateForm(r.Context(), form); err != nil {
		slog.Error("failed to insert form", "account_id", accountID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	slog.Info("form created", "form_id", form.ID, "owner_id", accountID)

	middleware.JSONResponse(w, http.StatusOK, models.CreateFormResponse{
		Message: "Form created successfully",
		FormID:  form.ID,
	})
}

// UpdateForm handles POST /updateFormData/{id}
func (h *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("id")

	var req models.FormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, ok := h.loadOwnedForm(w, r, formID); !ok {
		return
	}

	updated, err := h.store.UpdateForm(r.Context(), formID, req.Title, req.FormData)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to update form", "form_id", formID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update form")
		return
	}

	slog.Info("form updated", "form_id", formID)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateFormResponse{
		Message:     "Form updated successfully",
		UpdatedForm: *updated,
	})
}

// DeleteForm handles DELETE /deleteFormData/{id}
func (h *FormHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("id")

	if _, ok := h.loadOwnedForm(w, r, formID); !ok {
		return
	}

	deleted, err := h.store.DeleteForm(r.Context(), formID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete form", "form_id", formID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete form")
		return
	}

	slog.Info("form deleted", "form_id", formID)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteFormResponse{
		Message:     "Form deleted successfully",
		DeletedForm: *deleted,
	})
}

// ListResponses handles GET /getFormResponses/{id}
func (h *FormHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("id")

	if _, ok := h.loadOwnedForm(w, r, formID); !ok {
		return
	}

	responses, err := h.store.ListResponsesByForm(r.Context(), formID)
	if err != nil {
		slog.Error("failed to list responses", "form_id", formID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponsesResponse{Responses: responses})
}

// loadForm fetches a form and writes the error response itself on failure
func (h *FormHandler) loadForm(w http.ResponseWriter, r *http.Request, formID string) (*models.Form, bool) {
	form, err := h.store.GetForm(r.Context(), formID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to query form", "form_id", formID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return form, true
}

// loadOwnedForm is loadForm plus a 403 unless the caller owns the form
func (h *FormHandler) loadOwnedForm(w http.ResponseWriter, r *http.Request, formID string) (*models.Form, bool) {
	form, ok := h.loadForm(w, r, formID)
	if !ok {
		return nil, false
	}

	accountID, _ := middleware.AccountIDFromContext(r.Context())
	if form.OwnerID != accountID {
		slog.Warn("form access denied", "form_id", formID, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusForbidden, "You do not own this form")
		return nil, false
	}
	return form, true
}
