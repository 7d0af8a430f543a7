package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys populated by Auth from the token claims.
const (
	ContextEmailKey = "email"
	ContextRoleKey  = "role"
)

// RequireRole gates a route group on the role claim injected by Auth.
// A request whose role is not in the allow list is rejected before the
// handler runs; the error flows through the central HTTP error handler.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
