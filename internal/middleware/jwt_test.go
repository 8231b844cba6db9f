package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/job-application-tracker/internal/model"
	"github.com/iliyamo/job-application-tracker/internal/utils"
)

const mwSecret = "middleware-test-secret"

// protectedEcho builds an echo instance with one JWT-protected route
// that echoes back what the middleware put into the context.
func protectedEcho(extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/p")
	g.Use(JWTAuth(mwSecret))
	g.Use(extra...)
	g.GET("/res", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":  c.Get(CtxUserID),
			"role":     c.Get(CtxRole),
			"username": c.Get(CtxUsername),
		})
	})
	return e
}

func get(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p/res", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidTokenInjectsClaims(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken(mwSecret, 5, model.RoleStandard, "dana", 60)
	require.NoError(t, err)

	rec := get(protectedEcho(), "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
	assert.Contains(t, rec.Body.String(), `"role":"STANDARD"`)
	assert.Contains(t, rec.Body.String(), `"username":"dana"`)
}

func TestJWTAuth_FailuresAreUniform(t *testing.T) {
	t.Parallel()

	expired, err := utils.NewAccessToken(mwSecret, 5, model.RoleStandard, "dana", -1)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other-secret", 5, model.RoleAdmin, "dana", 60)
	require.NoError(t, err)

	e := protectedEcho()
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired.Token},
		{"wrong signature", "Bearer " + foreign.Token},
	}
	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(e, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		})
	}
	// Every failure mode answers with the identical body: expiry is not
	// distinguishable from tampering from the outside.
	for i := 1; i < len(bodies); i++ {
		assert.JSONEq(t, bodies[0], bodies[i])
	}
}

func TestRequireRole_AdminGate(t *testing.T) {
	t.Parallel()

	e := protectedEcho(RequireRole(model.RoleAdmin))

	std, err := utils.NewAccessToken(mwSecret, 5, model.RoleStandard, "dana", 60)
	require.NoError(t, err)
	admin, err := utils.NewAccessToken(mwSecret, 6, model.RoleAdmin, "root", 60)
	require.NoError(t, err)

	rec := get(e, "Bearer "+std.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(e, "Bearer "+admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_AuthenticationRunsFirst(t *testing.T) {
	t.Parallel()

	e := protectedEcho(RequireRole(model.RoleAdmin))

	// An expired token carrying an ADMIN claim must be a 401, not a 403:
	// role is only consulted after the token itself checks out.
	expiredAdmin, err := utils.NewAccessToken(mwSecret, 6, model.RoleAdmin, "root", -1)
	require.NoError(t, err)
	rec := get(e, "Bearer "+expiredAdmin.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_MissingClaimForbidden(t *testing.T) {
	t.Parallel()

	// RequireRole without JWTAuth in front: nothing in context → 403.
	e := echo.New()
	e.GET("/r", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/r", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
