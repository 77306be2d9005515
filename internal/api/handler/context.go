package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moklab/auth-service/internal/api/middleware"
	"github.com/moklab/auth-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the authentication pipeline.
// Handlers behind a role gate can assume it is present; the 401 here is a
// fast-fail for routes wired without RequireRoles.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}
