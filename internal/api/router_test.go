package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
	"github.com/learncraft/learncraft-api/internal/core/service"
	"github.com/learncraft/learncraft-api/internal/infrastructure/http/handlers"
)

// routerAuth maps fixed tokens to principals. Only admin@example.com is an admin
// and only owner@example.com teaches routerClassID.
type routerAuth struct{}

func (routerAuth) IssueToken(email string) (string, error) { return "token-for-" + email, nil }

func (routerAuth) Authenticate(token string) (*ports.Principal, error) {
	switch token {
	case "admin":
		return &ports.Principal{Email: "admin@example.com"}, nil
	case "user":
		return &ports.Principal{Email: "user@example.com"}, nil
	case "owner":
		return &ports.Principal{Email: "owner@example.com"}, nil
	}
	return nil, domain.ErrInvalidToken
}

func (routerAuth) RequireAdmin(_ context.Context, p *ports.Principal) error {
	if p == nil {
		return domain.ErrMissingToken
	}
	if p.Email != "admin@example.com" {
		return domain.ErrNotAdmin
	}
	return nil
}

type routerUsers struct{ ports.UserService }

func (routerUsers) ListUsers(context.Context, string) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1", Email: "user@example.com"}}, nil
}

func (routerUsers) IsAdmin(_ context.Context, email string) (bool, error) {
	return email == "admin@example.com", nil
}

const routerClassID = "class-1"

// routerClasses serves one class owned by owner@example.com. Writes succeed
// without storing anything.
type routerClasses struct{ ports.ClassRepository }

func (routerClasses) FindByID(_ context.Context, id string) (*domain.Class, error) {
	if id != routerClassID {
		return nil, domain.ErrClassNotFound
	}
	return &domain.Class{ID: id, Title: "Go", Price: 10, InstructorEmail: "owner@example.com", Status: domain.StatusApproved}, nil
}

func (routerClasses) Update(context.Context, string, domain.ClassPatch) error { return nil }

func (routerClasses) Delete(context.Context, string) error { return nil }

func (routerClasses) IncrementAssignment(context.Context, string) error { return nil }

type routerAssignments struct{ ports.AssignmentRepository }

func (routerAssignments) Create(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	out := *a
	out.ID = "asg-1"
	return &out, nil
}

var (
	routerOnce sync.Once
	testRouter *echo.Echo
)

// sharedRouter builds the router once; the prometheus middleware registers
// its collectors globally.
func sharedRouter() *echo.Echo {
	routerOnce.Do(func() {
		testRouter = NewRouter(Dependencies{
			Auth:        routerAuth{},
			Users:       routerUsers{},
			Catalog:     service.NewCatalogService(routerClasses{}, zerolog.Nop()),
			Assignments: service.NewAssignmentService(routerClasses{}, routerAssignments{}, nil, zerolog.Nop()),
			HealthChecks: map[string]handlers.Pinger{
				"mongo": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return errors.New("connection refused") },
			},
			CORSOrigins: []string{"*"},
			Logger:      zerolog.Nop(),
		})
	})
	return testRouter
}

func serve(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	sharedRouter().ServeHTTP(rec, req)
	return rec
}

func TestRouter_Guards(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		token  string
		body   string
		status int
		code   string
	}{
		{name: "admin route without token", method: http.MethodGet, target: "/api/v1/users", status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "admin route with garbage token", method: http.MethodGet, target: "/api/v1/users", token: "nope", status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "admin route as non-admin", method: http.MethodGet, target: "/api/v1/users", token: "user", status: http.StatusForbidden, code: "forbidden"},
		{name: "admin route as admin", method: http.MethodGet, target: "/api/v1/users", token: "admin", status: http.StatusOK},
		{name: "admin check for another user", method: http.MethodGet, target: "/api/v1/users/admin/admin@example.com", token: "user", status: http.StatusForbidden, code: "forbidden"},
		{name: "admin check for self", method: http.MethodGet, target: "/api/v1/users/admin/user@example.com", token: "user", status: http.StatusOK},
		{name: "moderation as non-admin", method: http.MethodPatch, target: "/api/v1/approve/abc", token: "user", status: http.StatusForbidden, code: "forbidden"},
		{name: "payment without token", method: http.MethodPost, target: "/api/v1/add-payment", body: `{}`, status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "token validation", method: http.MethodPost, target: "/api/v1/jwt", body: `{"email":"nope"}`, status: http.StatusUnprocessableEntity, code: "invalid"},
		{name: "edit class as non-instructor", method: http.MethodPatch, target: "/api/v1/class/" + routerClassID, token: "user", body: `{"title":"x","price":1}`, status: http.StatusForbidden, code: "forbidden"},
		{name: "delete class as non-instructor", method: http.MethodDelete, target: "/api/v1/delete-class/" + routerClassID, token: "user", status: http.StatusForbidden, code: "forbidden"},
		{name: "post assignment as non-instructor", method: http.MethodPost, target: "/api/v1/add-assignment", token: "user", body: `{"class_id":"class-1","title":"Week 1"}`, status: http.StatusForbidden, code: "forbidden"},
		{name: "edit class as instructor", method: http.MethodPatch, target: "/api/v1/class/" + routerClassID, token: "owner", body: `{"title":"x","price":1}`, status: http.StatusOK},
		{name: "delete class as instructor", method: http.MethodDelete, target: "/api/v1/delete-class/" + routerClassID, token: "owner", status: http.StatusOK},
		{name: "post assignment as instructor", method: http.MethodPost, target: "/api/v1/add-assignment", token: "owner", body: `{"class_id":"class-1","title":"Week 1"}`, status: http.StatusCreated},
		{name: "edit unknown class", method: http.MethodPatch, target: "/api/v1/class/missing", token: "owner", body: `{"title":"x","price":1}`, status: http.StatusNotFound, code: "not_found"},
		{name: "unknown route", method: http.MethodGet, target: "/api/v1/nothing-here", status: http.StatusNotFound, code: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.method, tt.target, tt.token, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.code == "" {
				return
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Code != tt.code {
				t.Fatalf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestRouter_IssueToken(t *testing.T) {
	rec := serve(http.MethodPost, "/api/v1/jwt", "", `{"email":"user@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token-for-user@example.com") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_Root(t *testing.T) {
	rec := serve(http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Learn Craft server has started" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthProbes(t *testing.T) {
	if rec := serve(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}

	rec := serve(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness: expected 503, got %d", rec.Code)
	}
	var body struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			Status string `json:"status"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "degraded" || body.Dependencies["mongo"].Status != "ok" || body.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("unexpected readiness %+v", body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	serve(http.MethodGet, "/health", "", "")

	rec := serve(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "learncraft_requests_total") {
		t.Fatalf("http metrics missing")
	}
}

// Every /api/v1 route must be described in the served OpenAPI document.
func TestRouter_SwaggerCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("invalid swagger json: %v", err)
	}
	if doc.BasePath != "/api/v1" {
		t.Fatalf("basePath = %q", doc.BasePath)
	}

	for _, r := range sharedRouter().Routes() {
		path, ok := strings.CutPrefix(r.Path, doc.BasePath)
		if !ok || path == "" {
			continue
		}
		segments := strings.Split(path, "/")
		for i, s := range segments {
			if name, isParam := strings.CutPrefix(s, ":"); isParam {
				segments[i] = "{" + name + "}"
			}
		}
		path = strings.Join(segments, "/")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s missing from the swagger document", r.Method, path)
		}
	}

	for _, name := range []string{"domain.Class", "ports.CheckoutResult", "handler.checkoutRequest"} {
		if _, ok := doc.Definitions[name]; !ok {
			t.Errorf("definition %s missing", name)
		}
	}
}
