package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/agent"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReportView is a report with its rendered body.
type ReportView struct {
	*model.ResearchReport
	HTML string `json:"html"`
}

// AgentChat answers one agent message.
func (h *Handler) AgentChat(c echo.Context) error {
	var req agent.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	resp, err := h.Agent.Chat(c.Request().Context(), req, requester(c))
	if err != nil {
		return respondError(c, err, "Agent chat failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// ListReports returns the caller's saved reports.
func (h *Handler) ListReports(c echo.Context) error {
	out, err := h.Store.ListReports(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to list reports")
	}
	return c.JSON(http.StatusOK, out)
}

// GetReport returns one report with its markdown rendered to HTML.
func (h *Handler) GetReport(c echo.Context) error {
	report, err := h.Store.GetReport(c.Request().Context(), c.Param("id"), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to get report")
	}
	html, err := agent.RenderReportHTML(report.Content)
	if err != nil {
		// the markdown is still returned
		logger.FromContext(c).Warn("Failed to render report", zap.String("report_id", report.ID), zap.Error(err))
	}
	return c.JSON(http.StatusOK, ReportView{ResearchReport: report, HTML: html})
}
