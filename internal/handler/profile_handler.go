package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard is everything the profile page shows at once.
type Dashboard struct {
	Solutions         []model.Solution       `json:"solutions"`
	Interests         []model.Interest       `json:"interests"`
	ReceivedInterests []model.Interest       `json:"received_interests"`
	Reports           []model.ResearchReport `json:"reports"`
}

// GetProfile returns the caller's profile.
func (h *Handler) GetProfile(c echo.Context) error {
	user, err := h.Store.Profile(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the caller's contact details.
func (h *Handler) UpdateProfile(c echo.Context) error {
	var patch store.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, err)
	}
	user, err := h.Store.UpdateProfile(c.Request().Context(), requester(c), patch)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	logger.FromContext(c).Info("Profile updated", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// GetDashboard loads the caller's solutions, interests and reports
// concurrently.
func (h *Handler) GetDashboard(c echo.Context) error {
	r := requester(c)
	g, ctx := errgroup.WithContext(c.Request().Context())

	var d Dashboard
	g.Go(func() (err error) {
		d.Solutions, err = h.Store.ListSolutionsByOwner(ctx, r)
		return err
	})
	g.Go(func() (err error) {
		d.Interests, err = h.Store.ListInterestsByUser(ctx, r)
		return err
	})
	g.Go(func() (err error) {
		d.ReceivedInterests, err = h.Store.ListInterestsForOwner(ctx, r)
		return err
	})
	g.Go(func() (err error) {
		d.Reports, err = h.Store.ListReports(ctx, r)
		return err
	})
	if err := g.Wait(); err != nil {
		return respondError(c, err, "Failed to load dashboard")
	}
	return c.JSON(http.StatusOK, d)
}
