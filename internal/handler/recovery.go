package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/config"
	"github.com/iliyamo/job-application-tracker/internal/queue"
	"github.com/iliyamo/job-application-tracker/internal/repository"
	queue_publisher "github.com/iliyamo/job-application-tracker/internal/service"
	"github.com/iliyamo/job-application-tracker/internal/utils"
)

// RecoveryHandler drives the forgot-password flow:
//
//	verify-identity -> verify-code -> reset-password
//
// No state is kept between requests. Each step reconstructs where the
// caller is from the stored code digest and expiry plus what the request
// carries, so concurrent flows and abandoned flows need no cleanup: a
// stale code is overwritten by the next verify-identity and expires on
// its own either way.
type RecoveryHandler struct {
	Cfg   config.Config
	Users repository.UserStore

	// Now and Publish exist so tests can pin the clock and capture
	// outbound events. Zero values fall back to the real clock and the
	// RabbitMQ publisher.
	Now     func() time.Time
	Publish func(ctx context.Context, ev queue.RecoveryCodeIssuedEvent) error
}

func NewRecoveryHandler(cfg config.Config, users repository.UserStore) *RecoveryHandler {
	return &RecoveryHandler{
		Cfg:     cfg,
		Users:   users,
		Now:     func() time.Time { return time.Now().UTC() },
		Publish: queue_publisher.PublishRecoveryCodeIssued,
	}
}

// ----- DTOs -----

type verifyIdentityReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}
type verifyCodeReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type resetPasswordReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// invalidCode is the single response body for every recovery failure
// past the identity step: wrong code, expired code, replayed code and
// unknown email all look identical from the outside.
func invalidCode(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired code"})
}

// VerifyIdentity checks that username and email belong to the same
// account and, if so, issues a fresh recovery code. The code digest and
// expiry are persisted; the code itself only leaves the process through
// the delivery queue, never through this response. Re-running this step
// while an earlier code is outstanding replaces it.
func (h *RecoveryHandler) VerifyIdentity(c echo.Context) error {
	var req verifyIdentityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentity(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// One response regardless of which field missed.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("verify identity: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	code, err := utils.NewRecoveryCode()
	if err != nil {
		c.Logger().Errorf("verify identity: generate code: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	now := h.Now()
	expiresAt := now.Add(time.Duration(h.Cfg.RecoveryCodeTTLMin) * time.Minute)

	if err := h.Users.SetRecoveryCode(ctx, u.ID, utils.HashRecoveryCode(code), expiresAt); err != nil {
		c.Logger().Errorf("verify identity: store code: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	// Delivery is best-effort: on publish failure the user simply runs
	// identity verification again and gets a new code.
	if err := h.Publish(ctx, queue.RecoveryCodeIssuedEvent{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Code:      code,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		IssuedAt:  now.Format(time.RFC3339),
	}); err != nil {
		c.Logger().Warnf("verify identity: publish delivery event: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "verification code sent"})
}

// VerifyCode reports whether a matching, unexpired code exists for the
// email's account. It is advisory — it lets the UI advance to the
// password form — and mutates nothing; the authoritative check happens
// again inside ResetPassword.
func (h *RecoveryHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return invalidCode(c)
		}
		c.Logger().Errorf("verify code: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	if !codeCurrent(u.RecoveryCodeHash, u.RecoveryCodeExpiresAt, req.Code, h.Now()) {
		return invalidCode(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "code verified"})
}

// ResetPassword re-validates the code and swaps in the new password.
// The validity check and the write happen in one store operation, so a
// code can authorize exactly one reset: a replay — even a concurrent
// one — matches nothing and fails like any wrong code.
func (h *RecoveryHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code/newPassword required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return invalidCode(c)
		}
		c.Logger().Errorf("reset password: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}

	newHash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("reset password: hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}

	ok, err := h.Users.ResetPasswordIfCodeValid(ctx, u.ID, utils.HashRecoveryCode(req.Code), newHash, h.Now())
	if err != nil {
		c.Logger().Errorf("reset password: conditional update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if !ok {
		return invalidCode(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful"})
}

// codeCurrent reports whether the supplied code matches the stored
// digest and the expiry has not passed.
func codeCurrent(storedHash string, expiresAt *time.Time, code string, now time.Time) bool {
	if storedHash == "" || expiresAt == nil {
		return false
	}
	if !now.Before(*expiresAt) {
		return false
	}
	return utils.HashRecoveryCode(code) == storedHash
}
