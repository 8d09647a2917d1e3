package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/middleware"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/review"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateSolution submits a new solution for review.
func (h *Handler) CreateSolution(c echo.Context) error {
	var in store.SolutionInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, err)
	}
	sol, err := h.Store.CreateSolution(c.Request().Context(), in, requester(c))
	if err != nil {
		return respondError(c, err, "Failed to create solution")
	}
	return c.JSON(http.StatusCreated, sol)
}

// GetSolution returns a solution to its owner or an evaluator, and to
// anyone else once it is catalog-visible.
func (h *Handler) GetSolution(c echo.Context) error {
	id := c.Param("id")
	sol, err := h.Store.GetSolutionByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to get solution")
	}
	s := middleware.SessionFrom(c)
	owner := s.User() != nil && s.User().ID == sol.UserID
	if !owner && !s.IsEvaluator() && !sol.CatalogVisible() {
		return respondError(c, apperr.NotFound("solution not found"), "Solution not visible to caller")
	}
	return c.JSON(http.StatusOK, sol)
}

// UpdateSolution applies an owner's content edit or resubmission. Review
// fields in the body are ignored.
func (h *Handler) UpdateSolution(c echo.Context) error {
	var patch review.OwnerPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, err)
	}
	sol, err := h.Store.UpdateSolution(c.Request().Context(), c.Param("id"), patch, requester(c))
	if err != nil {
		return respondError(c, err, "Failed to update solution")
	}
	return c.JSON(http.StatusOK, sol)
}

// DeleteSolution removes an unapproved solution.
func (h *Handler) DeleteSolution(c echo.Context) error {
	id := c.Param("id")
	if err := h.Store.DeleteSolution(c.Request().Context(), id, requester(c)); err != nil {
		return respondError(c, err, "Failed to delete solution")
	}
	logger.FromContext(c).Info("Solution deleted", zap.String("solution_id", id))
	return c.NoContent(http.StatusNoContent)
}

// ListMySolutions returns the caller's submissions.
func (h *Handler) ListMySolutions(c echo.Context) error {
	out, err := h.Store.ListSolutionsByOwner(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to list own solutions")
	}
	return c.JSON(http.StatusOK, out)
}

// ReviewQueue lists the solutions still awaiting a decision.
func (h *Handler) ReviewQueue(c echo.Context) error {
	out, err := h.Store.ListReviewQueue(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to load review queue")
	}
	return c.JSON(http.StatusOK, out)
}

// ReviewSolution records an evaluator's decision and any content edits.
func (h *Handler) ReviewSolution(c echo.Context) error {
	var patch review.EvaluatorPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, err)
	}
	sol, err := h.Store.UpdateSolution(c.Request().Context(), c.Param("id"), patch, requester(c))
	if err != nil {
		return respondError(c, err, "Failed to review solution")
	}
	logger.FromContext(c).Info("Solution reviewed",
		zap.String("solution_id", sol.ID),
		zap.String("tech", string(sol.TechApprovalStatus)),
		zap.String("business", string(sol.BusinessApprovalStatus)))
	return c.JSON(http.StatusOK, sol)
}
