package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/job-application-tracker/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller holds one of the given roles. It must be registered after
// JWTAuth: the role is only ever read from claims that already passed
// signature and expiry checks, so an unauthenticated request can never
// reach the role comparison. A missing or unknown role yields 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(model.Role)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
            }
            return next(c)
        }
    }
}
