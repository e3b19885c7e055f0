package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents a signed-in staff member for handler tests.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
	Group models.Group
}

// AdminUser returns an admin without a group.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.be",
		Role:  models.RoleAdmin,
	}
}

// PresidentUser returns the president of g.
func PresidentUser(g models.Group) TestUser {
	role := models.RolePresidentGarcons
	if g == models.GroupFilles {
		role = models.RolePresidentFilles
	}
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Président",
		Email: "president@test.be",
		Role:  role,
		Group: g,
	}
}

// AnimateurUser returns an animateur of g.
func AnimateurUser(g models.Group) TestUser {
	role := models.RoleAnimateurGarcons
	if g == models.GroupFilles {
		role = models.RoleAnimateurFilles
	}
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Animateur",
		Email: "animateur@test.be",
		Role:  role,
		Group: g,
	}
}

// WithUser injects user into the request context, bypassing sessions.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		Group: string(user.Group),
	})
}

// NewJSONRequest builds a request with body marshalled as JSON.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

// NewAuthenticatedRequest is NewJSONRequest with user in context.
func NewAuthenticatedRequest(t *testing.T, method, target string, body any, user TestUser) *http.Request {
	t.Helper()
	return WithUser(NewJSONRequest(t, method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertions.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks that the body contains expected.
func (r *ResponseRecorder) AssertContains(t testing.TB, expected string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// DecodeJSON unmarshals the response body into v.
func (r *ResponseRecorder) DecodeJSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
}
