package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"hrdash/internal/app/server"
	"hrdash/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.Environment = "test"
	cfg.EmployeeSourceURL = ""
	cfg.EmployeeFetchLimit = 30
	cfg.EmployeeCacheTTL = 0
	cfg.BookmarkBackend = config.BackendMemory
	cfg.JWTSecret = "test-secret"
	cfg.RateLimitPerMinute = 1000
	return cfg
}

func startApp(t *testing.T, cfg config.Config) (*server.App, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	app, err := server.New(ctx, cfg)
	if err != nil {
		cancel()
		t.Fatalf("failed to start app: %v", err)
	}
	app.Start(ctx)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		if err := app.Close(); err != nil {
			t.Errorf("close app: %v", err)
		}
	})
	return app, ts
}

func TestDirectoryJourney(t *testing.T) {
	cfg := testConfig()
	_, ts := startApp(t, cfg)
	client := ts.Client()

	getStatus(t, client, ts.URL+"/healthz", http.StatusOK)
	getStatus(t, client, ts.URL+"/readyz", http.StatusOK)

	var view struct {
		Items      []map[string]any `json:"items"`
		TotalItems int              `json:"totalItems"`
		TotalPages int              `json:"totalPages"`
	}
	decode(t, getJSON(t, client, ts.URL+"/api/v1/employees", ""), &view)
	if view.TotalItems != 30 || view.TotalPages != 3 || len(view.Items) != 12 {
		t.Fatalf("unexpected first page: items=%d total=%d pages=%d", len(view.Items), view.TotalItems, view.TotalPages)
	}

	decode(t, getJSON(t, client, ts.URL+"/api/v1/employees?page=3", ""), &view)
	if len(view.Items) != 6 {
		t.Fatalf("expected 6 items on the last page, got %d", len(view.Items))
	}

	decode(t, getJSON(t, client, ts.URL+"/api/v1/employees?rating=5", ""), &view)
	for _, item := range view.Items {
		if item["rating"].(float64) != 5 {
			t.Fatalf("rating filter leaked %v", item["rating"])
		}
	}

	token := login(t, client, ts.URL, cfg.AdminEmail, cfg.AdminPassword)

	postJSONStatus(t, client, ts.URL+"/api/v1/mutations", "", map[string]any{"type": "ADD_BOOKMARK", "payload": "7"}, http.StatusUnauthorized)
	resp := postJSONStatus(t, client, ts.URL+"/api/v1/mutations", token, map[string]any{"type": "ADD_BOOKMARK", "payload": "7"}, http.StatusOK)
	var mutation struct {
		Changed bool `json:"changed"`
		State   struct {
			Bookmarks []string `json:"bookmarks"`
		} `json:"state"`
	}
	decode(t, resp, &mutation)
	if !mutation.Changed || len(mutation.State.Bookmarks) != 1 || mutation.State.Bookmarks[0] != "7" {
		t.Fatalf("unexpected mutation result: %+v", mutation)
	}

	var detail struct {
		Employee   map[string]any `json:"employee"`
		Bookmarked bool           `json:"bookmarked"`
	}
	decode(t, getJSON(t, client, ts.URL+"/api/v1/employees/7", ""), &detail)
	if !detail.Bookmarked || detail.Employee["id"] != "7" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	created := postJSONStatus(t, client, ts.URL+"/api/v1/employees", token, map[string]any{
		"firstName":  "Journey",
		"lastName":   "Tester",
		"email":      "journey@example.com",
		"department": "Design",
		"position":   "UX Designer",
		"phone":      "+1 555-000-1111",
		"salary":     72000,
		"skills":     "Figma, Research",
	}, http.StatusCreated)
	var emp map[string]any
	decode(t, created, &emp)
	id, _ := emp["id"].(string)
	if id == "" {
		t.Fatal("expected employee id")
	}
	getStatus(t, client, ts.URL+"/api/v1/employees/"+id, http.StatusOK)

	var state struct {
		Employees  []map[string]any `json:"employees"`
		TotalPages int              `json:"totalPages"`
	}
	decode(t, getJSON(t, client, ts.URL+"/api/v1/state", ""), &state)
	if len(state.Employees) != 31 || state.Employees[0]["id"] != id || state.TotalPages != 3 {
		t.Fatalf("unexpected state after create: employees=%d pages=%d", len(state.Employees), state.TotalPages)
	}

	var dashboard struct {
		TotalEmployees int `json:"totalEmployees"`
		Bookmarked     int `json:"bookmarked"`
	}
	decode(t, getJSON(t, client, ts.URL+"/api/v1/analytics/dashboard", ""), &dashboard)
	if dashboard.TotalEmployees != 31 || dashboard.Bookmarked != 1 {
		t.Fatalf("unexpected dashboard: %+v", dashboard)
	}

	postJSONStatus(t, client, ts.URL+"/api/v1/employees/refresh", token, nil, http.StatusOK)
	var runs []map[string]any
	decode(t, getJSON(t, client, ts.URL+"/api/v1/jobs/runs", token), &runs)
	if len(runs) < 2 || runs[0]["type"] != "employee_refresh" {
		t.Fatalf("expected refresh runs, got %+v", runs)
	}
}

func TestCreateEmployeeValidationAndIdempotency(t *testing.T) {
	cfg := testConfig()
	_, ts := startApp(t, cfg)
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.AdminEmail, cfg.AdminPassword)

	invalid := postJSONStatus(t, client, ts.URL+"/api/v1/employees", token, map[string]any{
		"firstName": "No",
		"email":     "not-an-email",
		"salary":    -5,
	}, http.StatusBadRequest)
	assertValidationErrorField(t, invalid, "email")
	assertValidationErrorField(t, invalid, "salary")
	assertValidationErrorField(t, invalid, "department")

	body := map[string]any{
		"firstName":  "Idem",
		"lastName":   "Potent",
		"email":      "idem@example.com",
		"department": "Finance",
		"position":   "Analyst",
		"phone":      "555",
		"salary":     60000,
		"skills":     "Excel",
	}
	first := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", token, "create-1", body)
	second := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", token, "create-1", body)
	if first.status != http.StatusCreated || second.status != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.status, second.status)
	}
	if second.header.Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replayed response")
	}
	if !bytes.Equal(first.body, second.body) {
		t.Fatal("replayed body differs")
	}

	body["firstName"] = "Changed"
	conflict := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", token, "create-1", body)
	if conflict.status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", conflict.status)
	}

	var state struct {
		Employees []map[string]any `json:"employees"`
	}
	decode(t, getJSON(t, client, ts.URL+"/api/v1/state", ""), &state)
	if len(state.Employees) != 31 {
		t.Fatalf("expected one created employee, got %d employees", len(state.Employees))
	}
}

func TestBookmarksSurviveRestart(t *testing.T) {
	cfg := testConfig()
	cfg.BookmarkBackend = config.BackendFile
	cfg.BookmarkFile = filepath.Join(t.TempDir(), "bookmarks.json")

	first, ts := startApp(t, cfg)
	token := login(t, ts.Client(), ts.URL, cfg.AdminEmail, cfg.AdminPassword)
	doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/v1/bookmarks/7", token, "", nil)
	doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/bookmarks/3/toggle", token, "", nil)
	doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/bookmarks/3/toggle", token, "", nil)
	if got := first.Store.Bookmarks(); len(got) != 1 || got[0] != "7" {
		t.Fatalf("unexpected bookmarks before restart: %v", got)
	}

	second, ts2 := startApp(t, cfg)
	if got := second.Store.Bookmarks(); len(got) != 1 || got[0] != "7" {
		t.Fatalf("unexpected bookmarks after restart: %v", got)
	}

	var list struct {
		IDs       []string         `json:"ids"`
		Employees []map[string]any `json:"employees"`
	}
	decode(t, getJSON(t, ts2.Client(), ts2.URL+"/api/v1/bookmarks", ""), &list)
	if len(list.Employees) != 1 || list.Employees[0]["id"] != "7" {
		t.Fatalf("unexpected bookmarked employees: %+v", list)
	}
}

func TestMetricsCountMutations(t *testing.T) {
	cfg := testConfig()
	app, ts := startApp(t, cfg)
	token := login(t, ts.Client(), ts.URL, cfg.AdminEmail, cfg.AdminPassword)
	postJSONStatus(t, ts.Client(), ts.URL+"/api/v1/mutations", token, map[string]any{"type": "SET_SEARCH_QUERY", "payload": "engineer"}, http.StatusOK)

	var snapshot struct {
		Mutations map[string]struct {
			Dispatched int `json:"dispatched"`
		} `json:"mutations"`
	}
	decode(t, getJSON(t, ts.Client(), ts.URL+"/metrics", ""), &snapshot)
	if snapshot.Mutations["SET_SEARCH_QUERY"].Dispatched != 1 {
		t.Fatalf("expected one search mutation, got %+v", snapshot.Mutations)
	}
	if app.Store.State().SearchQuery != "engineer" {
		t.Fatal("search query not applied")
	}
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

func doJSON(t *testing.T, client *http.Client, method, url, token, idempotencyKey string, payload any) rawResponse {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return rawResponse{status: resp.StatusCode, header: resp.Header, body: raw}
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, payload any, status int) envelope {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, url, token, "", payload)
	if resp.status != status {
		t.Fatalf("POST %s: expected %d, got %d: %s", url, status, resp.status, resp.body)
	}
	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	resp := doJSON(t, client, http.MethodGet, url, token, "", nil)
	if resp.status != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d: %s", url, resp.status, resp.body)
	}
	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func getStatus(t *testing.T, client *http.Client, url string, status int) {
	t.Helper()
	if resp := doJSON(t, client, http.MethodGet, url, "", "", nil); resp.status != status {
		t.Fatalf("GET %s: expected %d, got %d", url, status, resp.status)
	}
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSONStatus(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload map[string]any
	decode(t, resp, &payload)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func assertValidationErrorField(t *testing.T, env envelope, field string) {
	t.Helper()
	errMap, ok := env.Error.(map[string]any)
	if !ok || errMap["code"] != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", env.Error)
	}
	details, ok := errMap["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details object, got %+v", errMap["details"])
	}
	fieldsRaw, ok := details["fields"].([]any)
	if !ok {
		t.Fatalf("expected details.fields array, got %+v", details["fields"])
	}
	for _, item := range fieldsRaw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if value, _ := entry["field"].(string); value == field {
			return
		}
	}
	t.Fatalf("expected validation field %q in %+v", field, fieldsRaw)
}
