package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/services"
)

const UserIDHeader = "X-User-ID"

// CurrentUser puts the acting user from the X-User-ID header on the request context.
func CurrentUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := strings.TrimSpace(c.Request().Header.Get(UserIDHeader)); id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(services.WithActor(req.Context(), id)))
			}
			return next(c)
		}
	}
}
