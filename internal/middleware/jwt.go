package middleware // middleware contains reusable HTTP middleware for the API

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/job-application-tracker/internal/utils"
)

// Context keys under which JWTAuth stores the verified claims. Handlers
// and downstream middleware read these via c.Get.
const (
    CtxUserID   = "user_id"
    CtxRole     = "role"
    CtxUsername = "username"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the verified subject, role and username into the
// request context. The provided secret must match the one used when
// issuing tokens. All verification failures — missing header, bad
// signature, malformed structure, expired token — answer with the same
// 401 body so a caller cannot probe which check failed; the distinct
// failure kind is still logged for operators.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                // Expired vs. tampered vs. garbage matters in the log,
                // never in the response.
                c.Logger().Debugf("token rejected: %v", err)
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxUsername, claims.Username)
            return next(c)
        }
    }
}
