// Package handler exposes the marketplace over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/agent"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/middleware"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/notify"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/onboarding"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/upload"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/jwtutil"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	ServiceName string
	Store       *store.Store
	JWT         *jwtutil.JWTUtil
	Wizard      *onboarding.Wizard
	Agent       *agent.Service
	Uploads     *upload.Service
	Notifier    *notify.Notifier
}

// respondError logs err and writes the short message callers may see.
// Errors without a user-facing message become a generic 500.
func respondError(c echo.Context, err error, logMsg string) error {
	status := apperr.Status(err)
	log := logger.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error(logMsg, zap.Error(err))
	} else {
		log.Warn(logMsg, zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperr.Message(err, strings.ToLower(http.StatusText(status)))})
}

func badRequest(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Invalid request data", zap.Error(err))
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
}

func requester(c echo.Context) store.Requester {
	return middleware.SessionFrom(c).Requester()
}
