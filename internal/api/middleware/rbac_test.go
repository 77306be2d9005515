package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/moklab/auth-service/internal/core/domain"
)

func runGate(t *testing.T, principal *domain.Principal, roles ...domain.Role) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(PrincipalKey, *principal)
	}

	called := false
	handler := RequireRoles(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err == nil {
		return rec.Code, called
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	return he.Code, called
}

func TestRequireRoles_NoPrincipalIsUnauthorized(t *testing.T) {
	for _, roles := range [][]domain.Role{
		{domain.RoleUser},
		{domain.RoleAdmin},
		{domain.RoleUser, domain.RoleAdmin},
	} {
		code, called := runGate(t, nil, roles...)
		if code != http.StatusUnauthorized {
			t.Fatalf("roles %v: expected 401, got %d", roles, code)
		}
		if called {
			t.Fatalf("roles %v: handler must not run", roles)
		}
	}
}

func TestRequireRoles_InsufficientRoleIsForbidden(t *testing.T) {
	p := domain.Principal{Username: "alice", Role: domain.RoleUser}
	code, called := runGate(t, &p, domain.RoleAdmin)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if called {
		t.Fatalf("handler must not run")
	}
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	p := domain.Principal{Username: "root", Role: domain.RoleAdmin}
	code, called := runGate(t, &p, domain.RoleUser, domain.RoleAdmin)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !called {
		t.Fatalf("handler should run")
	}
}
