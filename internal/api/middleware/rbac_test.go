package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zapastore/storefront/internal/core/domain"
)

func rbacContext(role interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRBAC_AllowedRole(t *testing.T) {
	c, rec := rbacContext(domain.RoleAdmin)

	if err := RBAC(domain.RoleAdmin)(okHandler)(c); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_DeniedRole(t *testing.T) {
	c, _ := rbacContext(domain.RoleCustomer)

	if err := RBAC(domain.RoleAdmin)(okHandler)(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	c, _ := rbacContext(nil)

	if err := RBAC(domain.RoleAdmin)(okHandler)(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden when no role claim is set, got %v", err)
	}
}

func TestRBAC_MultipleRoles(t *testing.T) {
	c, rec := rbacContext(domain.RoleCustomer)

	if err := RBAC(domain.RoleAdmin, domain.RoleCustomer)(okHandler)(c); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
