package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"daflow/internal/config"
	"daflow/internal/record"
)

func newTestServer(t *testing.T) (*httptest.Server, *record.Store) {
	t.Helper()
	store := record.NewStore()
	h := NewHandler(store, config.DefaultAnalytics())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func uploadRows(t *testing.T, srv *httptest.Server) {
	rows := record.RecordSet{
		{"REQUEST_ID": "R1", "DATASET_ID": "D1", "REQUEST_STATUS": "Approved", "DATE_REQUEST_RECEIVED_X": "2024-01-02", "DATE_ACCESS_GRANTED": "2024-01-12"},
		{"REQUEST_ID": "R2", "DATASET_ID": "D2", "REQUEST_STATUS": "In Review", "DATE_REQUEST_RECEIVED_X": "2024-01-03"},
	}
	if code := doJSON(t, http.MethodPut, srv.URL+"/api/v1/records", rows, nil); code != http.StatusOK {
		t.Fatalf("upload failed with status %d", code)
	}
}

func TestReplaceAndSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadRows(t, srv)

	var summary struct {
		TotalRows     int     `json:"totalRows"`
		TotalRequests int     `json:"totalRequests"`
		ApprovedRows  int     `json:"approvedRows"`
		ApprovalRate  float64 `json:"approvalRate"`
		Approval      struct {
			Mean *float64 `json:"mean"`
		} `json:"approval"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/summary", nil, &summary); code != http.StatusOK {
		t.Fatalf("summary failed with status %d", code)
	}

	if summary.TotalRows != 2 || summary.TotalRequests != 2 || summary.ApprovedRows != 1 {
		t.Errorf("Summary counts wrong: %+v", summary)
	}
	if summary.Approval.Mean == nil || *summary.Approval.Mean != 10.0 {
		t.Errorf("Approval mean wrong: %+v", summary.Approval.Mean)
	}
}

func TestRequestRoutes(t *testing.T) {
	srv, store := newTestServer(t)
	uploadRows(t, srv)

	var ids struct {
		RequestIDs []string `json:"requestIds"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/requests", nil, &ids); code != http.StatusOK {
		t.Fatalf("list ids failed with status %d", code)
	}
	if len(ids.RequestIDs) != 2 || ids.RequestIDs[0] != "R1" {
		t.Errorf("Request ids wrong: %v", ids.RequestIDs)
	}

	updates := []map[string]string{
		{"field": "REQUEST_STATUS", "value": "Approved"},
	}
	if code := doJSON(t, http.MethodPatch, srv.URL+"/api/v1/records/requests/R2", updates, nil); code != http.StatusOK {
		t.Fatalf("update failed with status %d", code)
	}
	rows := store.ForRequest("REQUEST_ID", "R2")
	if rows[0]["REQUEST_STATUS"] != "Approved" {
		t.Errorf("Update did not apply: %v", rows[0])
	}

	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/requests/NOPE", nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown request, got %d", code)
	}
}

func TestDistributionAndStagesRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	uploadRows(t, srv)

	var dist struct {
		Field        string `json:"field"`
		Distribution []struct {
			Value string `json:"value"`
			Count int    `json:"count"`
		} `json:"distribution"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/distribution", nil, &dist); code != http.StatusOK {
		t.Fatalf("distribution failed with status %d", code)
	}
	if dist.Field != "REQUEST_STATUS" || len(dist.Distribution) != 2 {
		t.Errorf("Distribution wrong: %+v", dist)
	}

	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/stages?bucket=decade", nil, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid bucket, got %d", code)
	}

	var stages struct {
		Stages map[string][]struct {
			AvgDays float64 `json:"avgDays"`
		} `json:"stages"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/stages", nil, &stages); code != http.StatusOK {
		t.Fatalf("stages failed with status %d", code)
	}
	if _, ok := stages.Stages["Total Cycle"]; !ok {
		t.Errorf("Expected Total Cycle series, got %v", stages.Stages)
	}
}

func TestFieldsRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	var fields struct {
		FieldTypes map[string]string `json:"fieldTypes"`
		Stages     []struct {
			Label string `json:"label"`
		} `json:"stages"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/fields", nil, &fields); code != http.StatusOK {
		t.Fatalf("fields failed with status %d", code)
	}
	if fields.FieldTypes["DATE_ACCESS_GRANTED"] != "date" {
		t.Errorf("Expected date type for DATE_ACCESS_GRANTED, got %q", fields.FieldTypes["DATE_ACCESS_GRANTED"])
	}
	if len(fields.Stages) != 5 {
		t.Errorf("Expected 5 stages, got %d", len(fields.Stages))
	}
}

func TestEmptyStoreDegrades(t *testing.T) {
	srv, _ := newTestServer(t)

	var summary struct {
		TotalRows int `json:"totalRows"`
	}
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/summary", nil, &summary); code != http.StatusOK {
		t.Fatalf("summary on empty store failed with status %d", code)
	}
	if summary.TotalRows != 0 {
		t.Errorf("Expected zero rows, got %d", summary.TotalRows)
	}
}
