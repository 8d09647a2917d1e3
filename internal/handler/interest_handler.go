package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"

	"github.com/labstack/echo/v4"
)

// CreateInterest records a buyer's interest and notifies the vendor.
func (h *Handler) CreateInterest(c echo.Context) error {
	var in store.InterestInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, err)
	}
	ctx := c.Request().Context()
	interest, err := h.Store.CreateInterest(ctx, c.Param("id"), in, requester(c))
	if err != nil {
		return respondError(c, err, "Failed to create interest")
	}
	h.Notifier.InterestCreated(ctx, interest.Solution, interest)
	return c.JSON(http.StatusCreated, interest)
}

// DeleteInterest withdraws or dismisses an interest.
func (h *Handler) DeleteInterest(c echo.Context) error {
	if err := h.Store.DeleteInterest(c.Request().Context(), c.Param("id"), requester(c)); err != nil {
		return respondError(c, err, "Failed to delete interest")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyInterests returns the interests the caller expressed.
func (h *Handler) ListMyInterests(c echo.Context) error {
	out, err := h.Store.ListInterestsByUser(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to list interests")
	}
	return c.JSON(http.StatusOK, out)
}

// ListReceivedInterests returns interests in the caller's solutions.
func (h *Handler) ListReceivedInterests(c echo.Context) error {
	out, err := h.Store.ListInterestsForOwner(c.Request().Context(), requester(c))
	if err != nil {
		return respondError(c, err, "Failed to list received interests")
	}
	return c.JSON(http.StatusOK, out)
}
