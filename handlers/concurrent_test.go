// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-form/models"
	"github.com/danielhkuo/quickly-form/testutil"
)

// TestConcurrentResponseSubmissions verifies that simultaneous submissions
// to one form each leave their ID on the form's response list
func TestConcurrentResponseSubmissions(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewResponseHandler(store)
	form := testutil.CreateTestForm(t, store, "owner-1", "Busy form")

	numSubmitters := 20

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numSubmitters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := models.SubmitResponseRequest{
				ResponseData: []byte(fmt.Sprintf(`{"answer":%d}`, idx)),
				Name:         fmt.Sprintf("Submitter%d", idx),
			}
			req := testutil.MakeRequest("POST", "/addFormResponse/"+form.ID, body, nil)
			req.SetPathValue("formId", form.ID)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numSubmitters {
		t.Errorf("Expected %d successful submissions, got %d", numSubmitters, successCount.Load())
	}

	stored, err := store.GetForm(context.Background(), form.ID)
	if err != nil {
		t.Fatalf("Failed to reload form: %v", err)
	}
	if len(stored.Responses) != numSubmitters {
		t.Errorf("Expected %d response ids on form, got %d (lost appends)", numSubmitters, len(stored.Responses))
	}

	seen := make(map[string]bool)
	for _, id := range stored.Responses {
		if seen[id] {
			t.Errorf("Response id %s listed twice", id)
		}
		seen[id] = true
	}
}

// TestConcurrentRegistrations verifies that distinct usernames registered at
// the same time all succeed and all receive working tokens
func TestConcurrentRegistrations(t *testing.T) {
	store := testutil.SetupTestStore(t)
	issuer := testutil.NewTestIssuer()
	handler := NewAccountHandler(store, issuer)

	numUsers := 8
	tokens := make([]string, numUsers)

	var wg sync.WaitGroup
	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/register", models.CredentialsRequest{
				Username: fmt.Sprintf("user%d", idx),
				Password: "password",
			}, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusCreated {
				return
			}
			var resp models.RegisterResponse
			if err := decodeBody(w, &resp); err == nil {
				tokens[idx] = resp.Token
			}
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for i, token := range tokens {
		if token == "" {
			t.Errorf("user%d did not register", i)
			continue
		}
		id, err := issuer.Verify(token)
		if err != nil {
			t.Errorf("user%d token invalid: %v", i, err)
			continue
		}
		ids[id] = true
	}
	if len(ids) != numUsers {
		t.Errorf("Expected %d distinct account ids, got %d", numUsers, len(ids))
	}
}

func decodeBody(w *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(w.Body).Decode(v)
}
