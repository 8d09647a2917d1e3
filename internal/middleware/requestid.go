package middleware

import (
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDKey = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request and a
// logger carrying it to both the Echo and the request context.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDKey)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(RequestIDKey, requestID)
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDKey, requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set("logger", ctxLogger)
			c.SetRequest(c.Request().WithContext(logger.WithLogger(c.Request().Context(), ctxLogger)))

			return next(c)
		}
	}
}
