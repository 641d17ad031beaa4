package conformance_test

import (
	"net/http"
	"testing"
)

func TestRecordValidationAgainstSeededSchema(t *testing.T) {
	// contacts has a required name, a typed email, and a status picklist.
	resp := doRequest(t, http.MethodPost, "/v1/records/contacts", map[string]any{
		"values": map[string]string{
			"email":  "broken-address",
			"status": "not-an-option",
		},
	})
	mustStatus(t, resp, http.StatusBadRequest)
	body := readJSON(t, resp)
	assertErrorEnvelope(t, body, "VALIDATION_ERROR")

	details, _ := body["errors"].([]any)
	if len(details) != 3 {
		t.Fatalf("got %d error details, want 3 (missing name, bad email, bad status): %v",
			len(details), details)
	}
}

func TestRecordCreateAndReadBack(t *testing.T) {
	created := createRecord(t, "contacts", map[string]string{
		"name":   "Grace Hopper",
		"email":  "grace@example.com",
		"status": "active",
	})
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected record id")
	}

	resp := doRequest(t, http.MethodGet, "/v1/records/contacts/"+id, nil)
	mustStatus(t, resp, http.StatusOK)
	body := readJSON(t, resp)
	values, _ := body["values"].(map[string]any)
	if values["name"] != "Grace Hopper" || values["status"] != "active" {
		t.Errorf("values = %v", values)
	}
}

func TestRecordPartialUpdateKeepsOtherValues(t *testing.T) {
	created := createRecord(t, "contacts", map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
	})
	id, _ := created["id"].(string)

	resp := doRequest(t, http.MethodPatch, "/v1/records/contacts/"+id, map[string]any{
		"values": map[string]string{"status": "pending"},
	})
	mustStatus(t, resp, http.StatusOK)
	body := readJSON(t, resp)
	values, _ := body["values"].(map[string]any)
	if values["name"] != "Ada Lovelace" || values["status"] != "pending" {
		t.Errorf("values = %v", values)
	}
}

func TestRecordResolveDisplayValues(t *testing.T) {
	created := createRecord(t, "companies", map[string]string{"name": "Initech"})
	id, _ := created["id"].(string)
	blank := createRecord(t, "companies", map[string]string{})
	blankID, _ := blank["id"].(string)

	resp := doRequest(t, http.MethodPost, "/v1/records/companies/resolve", map[string]any{
		"ids": []string{id, blankID, "987654"},
	})
	mustStatus(t, resp, http.StatusOK)
	body := readJSON(t, resp)
	values, _ := body["values"].(map[string]any)
	if values[id] != "Initech" {
		t.Errorf("display for %s = %v, want Initech", id, values[id])
	}
	if values[blankID] != "Unnamed Record" {
		t.Errorf("display for blank record = %v, want Unnamed Record", values[blankID])
	}
	if values["987654"] != "987654" {
		t.Errorf("display for missing id = %v, want the raw id", values["987654"])
	}
}

func TestRecordDelete(t *testing.T) {
	created := createRecord(t, "companies", map[string]string{"name": "Gone Soon"})
	id, _ := created["id"].(string)

	resp := doRequest(t, http.MethodDelete, "/v1/records/companies/"+id, nil)
	mustStatus(t, resp, http.StatusNoContent)
	_ = resp.Body.Close()

	resp = doRequest(t, http.MethodGet, "/v1/records/companies/"+id, nil)
	mustStatus(t, resp, http.StatusNotFound)
	body := readJSON(t, resp)
	assertErrorEnvelope(t, body, "OBJECT_NOT_FOUND")
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, serverURL+"/v1/object-types", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	mustStatus(t, resp, http.StatusUnauthorized)
	_ = resp.Body.Close()
}
