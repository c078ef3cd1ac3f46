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

type ResponseHandler struct {
	store db.Store
}

func NewResponseHandler(store db.Store) *ResponseHandler {
	return &ResponseHandler{store: store}
}

// Submit handles POST /addFormResponse/{formId}
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("formId")

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// The response is written before the form is checked. If the form does
	// not exist the response stays behind with no form listing it.
	response := &models.Response{
		FormID:       formID,
		ResponseData: req.ResponseData,
		Name:         req.Name,
	}
	if err := h.store.CreateResponse(r.Context(), response); err != nil {
		slog.Error("failed to insert response", "form_id", formID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	err := h.store.AppendFormResponse(r.Context(), formID, response.ID)
	if errors.Is(err, db.ErrNotFound) {
		slog.Warn("response submitted for unknown form", "form_id", formID, "response_id", response.ID)
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to append response to form", "form_id", formID, "response_id", response.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	slog.Info("response submitted", "form_id", formID, "response_id", response.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Response submitted successfully",
	})
}
