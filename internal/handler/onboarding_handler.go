package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/onboarding"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"

	"github.com/labstack/echo/v4"
)

// OnboardingResponse is the wizard state plus, once the wizard is closed,
// the pre-filled submission form.
type OnboardingResponse struct {
	*onboarding.State
	Form *store.SolutionInput `json:"form,omitempty"`
}

type onboardingMessage struct {
	Text string `json:"text"`
}

func onboardingResponse(s *onboarding.State) OnboardingResponse {
	resp := OnboardingResponse{State: s}
	if s.Closed() {
		form := onboarding.HandOff(s.Draft)
		resp.Form = &form
	}
	return resp
}

// StartOnboarding opens a wizard session.
func (h *Handler) StartOnboarding(c echo.Context) error {
	s, err := h.Wizard.Start(c.Request().Context(), requester(c).AuthID)
	if err != nil {
		return respondError(c, err, "Failed to start onboarding")
	}
	return c.JSON(http.StatusCreated, onboardingResponse(s))
}

// GetOnboarding returns a wizard session.
func (h *Handler) GetOnboarding(c echo.Context) error {
	s, err := h.Wizard.Get(c.Request().Context(), c.Param("id"), requester(c).AuthID)
	if err != nil {
		return respondError(c, err, "Failed to get onboarding session")
	}
	return c.JSON(http.StatusOK, onboardingResponse(s))
}

// SendOnboardingMessage runs one wizard turn.
func (h *Handler) SendOnboardingMessage(c echo.Context) error {
	var msg onboardingMessage
	if err := c.Bind(&msg); err != nil {
		return badRequest(c, err)
	}
	s, err := h.Wizard.Turn(c.Request().Context(), c.Param("id"), requester(c).AuthID, msg.Text)
	if err != nil {
		return respondError(c, err, "Onboarding turn refused")
	}
	return c.JSON(http.StatusOK, onboardingResponse(s))
}

// SkipOnboarding abandons the wizard for the plain form.
func (h *Handler) SkipOnboarding(c echo.Context) error {
	s, err := h.Wizard.Skip(c.Request().Context(), c.Param("id"), requester(c).AuthID)
	if err != nil {
		return respondError(c, err, "Failed to skip onboarding")
	}
	return c.JSON(http.StatusOK, onboardingResponse(s))
}
