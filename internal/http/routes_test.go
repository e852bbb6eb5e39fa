package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"todo_backend/internal/config"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	tokens *service.TokenManager
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryTaskRepository()
	tokens := service.NewTokenManager("routes-secret", time.Hour)
	cfg := &config.Config{
		Version:          "test",
		StorageDriver:    config.StorageDriverMemory,
		AllowedOrigins:   []string{"http://localhost:3000"},
		APIRateLimit:     1000,
		APIRateWindow:    time.Minute,
		TenantRateLimit:  1000,
		TenantRateWindow: time.Minute,
	}

	r := NewRouter(Deps{
		Config: cfg,
		Tasks:  service.NewTaskService(repo),
		Store:  repo,
		Tokens: tokens,
	})
	return &apiClient{t: t, router: r, tokens: tokens}
}

func (a *apiClient) do(tenant, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		token, err := a.tokens.Generate(tenant)
		if err != nil {
			a.t.Fatalf("token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func (a *apiClient) create(tenant, title string) int64 {
	a.t.Helper()
	rec, body := a.do(tenant, http.MethodPost, "/api/v1/tasks", `{"title":"`+title+`"}`)
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("create %q: %d %s", title, rec.Code, rec.Body)
	}
	return int64(body["id"].(float64))
}

func path(id int64, suffix string) string {
	return "/api/v1/tasks/" + strconv.FormatInt(id, 10) + suffix
}

func TestTaskLifecycle(t *testing.T) {
	api := newAPI(t)

	rec, body := api.do("alice", http.MethodPost, "/api/v1/tasks", `{"title":"  Buy groceries ","description":"milk"}`)
	if rec.Code != http.StatusCreated || body["status"] != "created" || body["title"] != "Buy groceries" {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	id := int64(body["id"].(float64))

	rec, body = api.do("alice", http.MethodGet, path(id, ""), "")
	if rec.Code != http.StatusOK || body["tenant_id"] != "alice" || body["description"] != "milk" || body["completed"] != false {
		t.Fatalf("get: %d %s", rec.Code, rec.Body)
	}

	rec, body = api.do("alice", http.MethodPut, path(id, ""), `{"title":"Buy food"}`)
	if rec.Code != http.StatusOK || body["status"] != "updated" || body["title"] != "Buy food" {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}

	for i := 0; i < 2; i++ {
		rec, body = api.do("alice", http.MethodPatch, path(id, "/complete"), "")
		if rec.Code != http.StatusOK || body["status"] != "completed" {
			t.Fatalf("complete #%d: %d %s", i+1, rec.Code, rec.Body)
		}
	}

	rec, body = api.do("alice", http.MethodGet, "/api/v1/tasks?status=completed", "")
	if rec.Code != http.StatusOK || body["total"] != float64(1) || body["filter"] != "completed" {
		t.Fatalf("list: %d %s", rec.Code, rec.Body)
	}

	rec, body = api.do("alice", http.MethodDelete, path(id, ""), "")
	if rec.Code != http.StatusOK || body["message"] != "Task deleted successfully" || body["title"] != "Buy food" {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body)
	}

	rec, body = api.do("alice", http.MethodDelete, path(id, ""), "")
	if rec.Code != http.StatusNotFound || body["error"] != "not_found" || body["task_id"] != float64(id) || body["status_code"] != float64(404) {
		t.Fatalf("second delete: %d %s", rec.Code, rec.Body)
	}
}

func TestListNewestFirstAndEmpty(t *testing.T) {
	api := newAPI(t)
	first := api.create("alice", "first")
	second := api.create("alice", "second")

	rec, body := api.do("alice", http.MethodGet, "/api/v1/tasks", "")
	if rec.Code != http.StatusOK || body["filter"] != "all" {
		t.Fatalf("list: %d %s", rec.Code, rec.Body)
	}
	tasks := body["tasks"].([]any)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	if int64(tasks[0].(map[string]any)["id"].(float64)) != second || int64(tasks[1].(map[string]any)["id"].(float64)) != first {
		t.Fatalf("expected newest first: %s", rec.Body)
	}

	rec, body = api.do("bob", http.MethodGet, "/api/v1/tasks", "")
	if rec.Code != http.StatusOK || body["total"] != float64(0) {
		t.Fatalf("bob list: %d %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"tasks":[]`) {
		t.Fatalf("empty list must encode as []: %s", rec.Body)
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	api := newAPI(t)
	id := api.create("alice", "private")

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, path(id, ""), ""},
		{http.MethodPut, path(id, ""), `{"title":"pwned"}`},
		{http.MethodPatch, path(id, "/complete"), ""},
		{http.MethodDelete, path(id, ""), ""},
	} {
		rec, body := api.do("bob", tc.method, tc.path, tc.body)
		if rec.Code != http.StatusNotFound || body["error"] != "not_found" {
			t.Fatalf("bob %s %s: %d %s", tc.method, tc.path, rec.Code, rec.Body)
		}
	}

	rec, body := api.do("alice", http.MethodGet, path(id, ""), "")
	if rec.Code != http.StatusOK || body["title"] != "private" || body["completed"] != false {
		t.Fatalf("alice's task changed: %s", rec.Body)
	}
}

func TestValidationErrors(t *testing.T) {
	api := newAPI(t)
	id := api.create("alice", "x")

	cases := []struct {
		method, path, body, field string
	}{
		{http.MethodPost, "/api/v1/tasks", `{"title":"   "}`, "title"},
		{http.MethodPost, "/api/v1/tasks", `{"title":"` + strings.Repeat("a", 201) + `"}`, "title"},
		{http.MethodPost, "/api/v1/tasks", `{"title":"ok","description":"` + strings.Repeat("d", 2001) + `"}`, "description"},
		{http.MethodPost, "/api/v1/tasks", `{not json`, "body"},
		{http.MethodGet, "/api/v1/tasks?status=done", "", "status"},
		{http.MethodGet, "/api/v1/tasks/abc", "", "task_id"},
		{http.MethodGet, "/api/v1/tasks/0", "", "task_id"},
		{http.MethodPut, path(id, ""), `{}`, "fields"},
		{http.MethodPatch, "/api/v1/tasks/-1/complete", "", "task_id"},
	}
	for _, tc := range cases {
		rec, body := api.do("alice", tc.method, tc.path, tc.body)
		if rec.Code != http.StatusBadRequest || body["error"] != "validation" || body["field"] != tc.field {
			t.Fatalf("%s %s: %d %s; want field %s", tc.method, tc.path, rec.Code, rec.Body, tc.field)
		}
	}

	rec, _ := api.do("alice", http.MethodPost, "/api/v1/tasks", `{"title":"`+strings.Repeat("a", 200)+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("200-char title: %d %s", rec.Code, rec.Body)
	}
}

func TestUnauthorized(t *testing.T) {
	api := newAPI(t)

	for _, p := range []string{"/api/v1/tasks", "/tasks", "/api/v1/tasks/1", "/me"} {
		rec, body := api.do("", http.MethodGet, p, "")
		if rec.Code != http.StatusUnauthorized || body["error"] != "unauthorized" {
			t.Fatalf("%s: %d %s", p, rec.Code, rec.Body)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("%s: missing WWW-Authenticate", p)
		}
	}
}

func TestUnversionedRoutes(t *testing.T) {
	api := newAPI(t)
	id := api.create("alice", "shared")

	rec, body := api.do("alice", http.MethodGet, "/tasks/"+strconv.FormatInt(id, 10), "")
	if rec.Code != http.StatusOK || body["title"] != "shared" {
		t.Fatalf("root get: %d %s", rec.Code, rec.Body)
	}

	rec, body = api.do("alice", http.MethodGet, "/me", "")
	if rec.Code != http.StatusOK || body["tenant_id"] != "alice" {
		t.Fatalf("me: %d %s", rec.Code, rec.Body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	api := newAPI(t)
	api.create("alice", "counted")

	for _, p := range []string{"/", "/health", "/healthz", "/readyz"} {
		rec, _ := api.do("", http.MethodGet, p, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d %s", p, rec.Code, rec.Body)
		}
	}

	rec, _ := api.do("", http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "todo_task_operations_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
