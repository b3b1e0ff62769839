package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/zapastore/storefront/internal/core/domain"
)

// RBAC allows the request through only when the role claim set by Auth is
// one of allowedRoles. Admin-only surfaces (product writes, catalog
// refresh) are gated with RBAC(domain.RoleAdmin).
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
