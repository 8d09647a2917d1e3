package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/session"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/jwtutil"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Authenticate validates an optional bearer token and attaches a session
// to the request. Requests without a token get an anonymous session; a
// token that is present but invalid is rejected.
func Authenticate(jwtUtil *jwtutil.JWTUtil, profiles session.ProfileLoader, loadTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(withSession(c, session.Anonymous()))
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			s := session.New(profiles, session.Identity{
				AuthID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}, loadTimeout)
			s.Init(c.Request().Context())
			defer s.Teardown()

			c.Set("auth_id", claims.UserID)
			c.Set("email", claims.Email)
			log.Debug("Request authenticated",
				zap.String("auth_id", claims.UserID),
				zap.Bool("profile_loaded", s.User() != nil))

			return next(withSession(c, s))
		}
	}
}

func withSession(c echo.Context, s *session.Session) echo.Context {
	c.Set("session", s)
	c.SetRequest(c.Request().WithContext(session.WithSession(c.Request().Context(), s)))
	return c
}

// SessionFrom returns the request's session.
func SessionFrom(c echo.Context) *session.Session {
	if s, ok := c.Get("session").(*session.Session); ok && s != nil {
		return s
	}
	return session.FromContext(c.Request().Context())
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !SessionFrom(c).Authenticated() {
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}
		return next(c)
	}
}

// RequireEvaluator admits only users whose stored role is Evaluator.
func RequireEvaluator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := SessionFrom(c)
		if !s.Authenticated() {
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}
		if !s.IsEvaluator() {
			logger.FromContext(c).Warn("Evaluator route refused", zap.String("auth_id", s.Identity().AuthID))
			prometheus.RecordAuthError("not_evaluator")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "evaluator role required"})
		}
		return next(c)
	}
}
