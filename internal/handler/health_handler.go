package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/database"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint
func (h *Handler) HealthCheck(c echo.Context) error {
	if err := database.Ping(h.Store.DB()); err != nil {
		logger.FromContext(c).Error("Health check database ping failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":  "unhealthy",
			"service": h.ServiceName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.ServiceName,
	})
}
