package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/session"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/jwtutil"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
)

type profiles map[string]*model.User

func (p profiles) FindUserByAuthID(_ context.Context, authID string) (*model.User, error) {
	if u, ok := p[authID]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func setup(t *testing.T) (*echo.Echo, *jwtutil.JWTUtil) {
	t.Helper()
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	users := profiles{
		"auth-eval": {ID: "u-eval", AuthID: "auth-eval", Role: model.RoleEvaluator},
		"auth-user": {ID: "u-user", AuthID: "auth-user", Role: model.RoleUser},
	}

	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.Use(Authenticate(jwt, users, time.Second))

	whoami := func(c echo.Context) error {
		s := SessionFrom(c)
		return c.JSON(http.StatusOK, echo.Map{
			"auth_id":   s.Identity().AuthID,
			"evaluator": s.IsEvaluator(),
			"same_ctx":  session.FromContext(c.Request().Context()) == s,
			"logged":    logger.FromCtx(c.Request().Context()) == logger.FromContext(c),
		})
	}
	e.GET("/public", whoami)
	e.GET("/private", whoami, RequireAuth)
	e.GET("/review", whoami, RequireEvaluator)
	return e, jwt
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	e, _ := setup(t)
	rec := do(e, "/public", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDKey))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(RequestIDKey, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDKey))
	assert.Contains(t, rec.Body.String(), `"logged":true`)
}

func TestAuthenticate(t *testing.T) {
	e, jwt := setup(t)
	evalToken, err := jwt.GenerateToken("auth-eval", "eval@hub.sa", model.RoleEvaluator)
	require.NoError(t, err)
	userToken, err := jwt.GenerateToken("auth-user", "user@acme.sa", model.RoleUser)
	require.NoError(t, err)
	// the claim says Evaluator but the stored profile does not exist
	forged, err := jwt.GenerateToken("auth-new", "new@acme.sa", model.RoleEvaluator)
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		path   string
		token  string
		status int
		body   string
	}{
		{"anonymous public", "/public", "", http.StatusOK, `"auth_id":""`},
		{"anonymous private", "/private", "", http.StatusUnauthorized, "missing authorization token"},
		{"bad format", "/public", "Token abc", http.StatusUnauthorized, "expected Bearer"},
		{"bad token", "/public", "Bearer nope", http.StatusUnauthorized, "invalid or expired token"},
		{"user private", "/private", "Bearer " + userToken, http.StatusOK, `"auth_id":"auth-user"`},
		{"context session", "/private", "Bearer " + userToken, http.StatusOK, `"same_ctx":true`},
		{"user review", "/review", "Bearer " + userToken, http.StatusForbidden, "evaluator role required"},
		{"evaluator review", "/review", "bearer " + evalToken, http.StatusOK, `"evaluator":true`},
		{"role claim not trusted", "/review", "Bearer " + forged, http.StatusForbidden, "evaluator role required"},
		{"new user private", "/private", "Bearer " + forged, http.StatusOK, `"auth_id":"auth-new"`},
		{"anonymous review", "/review", "", http.StatusUnauthorized, "missing authorization token"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, tc.path, tc.token)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}
