package middleware

import (
	"net/http"

	"tableorder/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleが許可されたものか確認します。
func RoleGuard(allowed ...model.PrincipalRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRoleKey).(model.PrincipalRole)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("UNAUTHORIZED"))
			}

			for _, r := range allowed {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("FORBIDDEN"))
		}
	}
}
