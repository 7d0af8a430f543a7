package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requireRoleContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", he.Code)
	}
}

func TestRequireRole_AllowsAdmin(t *testing.T) {
	c := requireRoleContext(t)
	c.Set(ContextRoleKey, "ADMIN")

	called := false
	handler := RequireRole("ADMIN")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireRole_ForbidsClient(t *testing.T) {
	c := requireRoleContext(t)
	c.Set(ContextRoleKey, "CLIENTE")

	handler := RequireRole("ADMIN")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertForbidden(t, handler(c))
}

func TestRequireRole_ForbidsMissingRole(t *testing.T) {
	c := requireRoleContext(t)

	handler := RequireRole("ADMIN")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertForbidden(t, handler(c))
}
