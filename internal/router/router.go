package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/job-application-tracker/internal/config"
    "github.com/iliyamo/job-application-tracker/internal/handler"
    "github.com/iliyamo/job-application-tracker/internal/middleware"
    "github.com/iliyamo/job-application-tracker/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the credential endpoints and their middleware.
//
// Everything under /auth that accepts a secret — login and the three
// recovery steps — sits behind the shared Redis rate limiter to slow
// online guessing. Register is limited too; account creation spam is a
// close cousin of credential stuffing.
//
// The admin surface (/auth/users) layers RequireRole(Admin) on top of
// JWTAuth: the role check runs only for requests whose token already
// passed signature and expiry verification, so a tampered token is a
// 401 no matter what role claim it carries.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, r *handler.RecoveryHandler, cfg config.Config, rdb *redis.Client) {
    limited := e.Group("/auth")
    limited.Use(middleware.CredentialRateLimit(config.LoadRateLimitConfig(), rdb))
    limited.POST("/register", a.Register)
    limited.POST("/login", a.Login)
    limited.POST("/verify-identity", r.VerifyIdentity)
    limited.POST("/verify-code", r.VerifyCode)
    limited.POST("/reset-password", r.ResetPassword)

    // Any authenticated user.
    authed := e.Group("/auth")
    authed.Use(middleware.JWTAuth(cfg.JWTSecret))
    authed.GET("/me", a.Me)

    // Admin only.
    admin := e.Group("/auth")
    admin.Use(middleware.JWTAuth(cfg.JWTSecret))
    admin.Use(middleware.RequireRole(model.RoleAdmin))
    admin.GET("/users", a.ListUsers)
    admin.POST("/users", a.CreateUser)
}
