// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-form/models"
	"github.com/danielhkuo/quickly-form/testutil"
)

// TestFullFormWorkflow tests the complete end-to-end workflow:
// 1. Register and log in
// 2. Create a form
// 3. Fetch it through the public view
// 4. Submit two responses
// 5. Owner reads the responses
// 6. Update the form
// 7. Delete the form
func TestFullFormWorkflow(t *testing.T) {
	store := testutil.SetupTestStore(t)
	issuer := testutil.NewTestIssuer()

	accountHandler := NewAccountHandler(store, issuer)
	formHandler := NewFormHandler(store)
	responseHandler := NewResponseHandler(store)

	// Step 1: Register, then log in with the same credentials
	creds := models.CredentialsRequest{Username: "builder", Password: "hunter2"}
	w := httptest.NewRecorder()
	accountHandler.Register(w, testutil.MakeRequest("POST", "/register", creds, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Register failed: %d - %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	accountHandler.Login(w, testutil.MakeRequest("POST", "/login", creds, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	var loginResp models.LoginResponse
	json.NewDecoder(w.Body).Decode(&loginResp)
	token := loginResp.Token
	t.Logf("Step 1 - Logged in")

	// Step 2: Create a form
	createReq := models.FormRequest{
		Title: "Team lunch",
		FormData: []json.RawMessage{
			json.RawMessage(`{"type":"text","label":"Name"}`),
			json.RawMessage(`{"type":"radio","label":"Food","options":["Pizza","Sushi","Tacos"]}`),
		},
	}
	w = httptest.NewRecorder()
	authed(store, issuer, formHandler.CreateForm)(w, testutil.MakeRequest("POST", "/addFormData", createReq, testutil.BearerHeader(token)))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Create form failed: %d - %s", w.Code, w.Body.String())
	}
	var createResp models.CreateFormResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	formID := createResp.FormID
	if formID == "" {
		t.Fatal("Step 2 - Missing formId")
	}
	t.Logf("Step 2 - Created form: %s", formID)

	// Step 3: Public view needs no token
	req := testutil.MakeRequest("GET", "/response/getForms/"+formID, nil, nil)
	req.SetPathValue("id", formID)
	w = httptest.NewRecorder()
	formHandler.GetPublicForm(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Public get failed: %d - %s", w.Code, w.Body.String())
	}
	var publicForm models.Form
	json.NewDecoder(w.Body).Decode(&publicForm)
	if publicForm.Title != "Team lunch" || len(publicForm.FormData) != 2 {
		t.Fatalf("Step 3 - Unexpected form: %+v", publicForm)
	}

	// Step 4: Two anonymous submissions
	for _, name := range []string{"Alice", "Bob"} {
		body := models.SubmitResponseRequest{
			ResponseData: json.RawMessage(`{"Name":"` + name + `","Food":"Tacos"}`),
			Name:         name,
		}
		req := testutil.MakeRequest("POST", "/addFormResponse/"+formID, body, nil)
		req.SetPathValue("formId", formID)
		w := httptest.NewRecorder()
		responseHandler.Submit(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Step 4 - Submit for %s failed: %d - %s", name, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 4 - Submitted 2 responses")

	// Step 5: Owner lists responses
	req = testutil.MakeRequest("GET", "/getFormResponses/"+formID, nil, testutil.BearerHeader(token))
	req.SetPathValue("id", formID)
	w = httptest.NewRecorder()
	authed(store, issuer, formHandler.ListResponses)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - List responses failed: %d - %s", w.Code, w.Body.String())
	}
	var listResp models.ListResponsesResponse
	json.NewDecoder(w.Body).Decode(&listResp)
	if len(listResp.Responses) != 2 {
		t.Fatalf("Step 5 - Expected 2 responses, got %d", len(listResp.Responses))
	}

	// Step 6: Update keeps the collected responses
	updateReq := models.FormRequest{Title: "Team dinner", FormData: createReq.FormData[:1]}
	req = testutil.MakeRequest("POST", "/updateFormData/"+formID, updateReq, testutil.BearerHeader(token))
	req.SetPathValue("id", formID)
	w = httptest.NewRecorder()
	authed(store, issuer, formHandler.UpdateForm)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Update failed: %d - %s", w.Code, w.Body.String())
	}
	var updateResp models.UpdateFormResponse
	json.NewDecoder(w.Body).Decode(&updateResp)
	if updateResp.UpdatedForm.Title != "Team dinner" || len(updateResp.UpdatedForm.Responses) != 2 {
		t.Fatalf("Step 6 - Unexpected updated form: %+v", updateResp.UpdatedForm)
	}

	// Step 7: Delete, after which the public view 404s
	req = testutil.MakeRequest("DELETE", "/deleteFormData/"+formID, nil, testutil.BearerHeader(token))
	req.SetPathValue("id", formID)
	w = httptest.NewRecorder()
	authed(store, issuer, formHandler.DeleteForm)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Delete failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/response/getForms/"+formID, nil, nil)
	req.SetPathValue("id", formID)
	w = httptest.NewRecorder()
	formHandler.GetPublicForm(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Step 7 - Expected 404 after delete, got %d", w.Code)
	}
	t.Logf("Step 7 - Form deleted")
}
