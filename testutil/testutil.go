// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-form/auth"
	"github.com/danielhkuo/quickly-form/cliparse"
	"github.com/danielhkuo/quickly-form/db"
	"github.com/danielhkuo/quickly-form/models"
)

// TestDBURL is the connection string for the in-memory test database
const TestDBURL = ":memory:"

// SetupTestStore opens a fresh in-memory SQLite store with the full schema
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()

	store, err := db.OpenSQL(context.Background(), db.DialectSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: cliparse.DatabaseSQLite,
		ClientOrigin: "http://localhost:3000",
		TokenSecret:  "test-token-secret",
		TokenTTL:     time.Hour,
	}
}

// NewTestIssuer returns a token issuer matching GetTestConfig
func NewTestIssuer() *auth.TokenIssuer {
	cfg := GetTestConfig()
	return auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
}

// CreateTestAccount stores an account with password "password" and returns it
// with a bearer token
func CreateTestAccount(t *testing.T, store db.Store, issuer *auth.TokenIssuer, username string) (*models.Account, string) {
	t.Helper()

	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	account := &models.Account{Username: username, PasswordHash: hash}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	token, err := issuer.Issue(account.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	return account, token
}

// CreateTestForm stores a form owned by ownerID and returns it
func CreateTestForm(t *testing.T, store db.Store, ownerID, title string) *models.Form {
	t.Helper()

	form := &models.Form{
		OwnerID:  ownerID,
		Title:    title,
		FormData: []json.RawMessage{json.RawMessage(`{"type":"text","label":"Name"}`)},
	}
	if err := store.CreateForm(context.Background(), form); err != nil {
		t.Fatalf("Failed to create test form: %v", err)
	}

	return form
}

// BearerHeader builds the Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
