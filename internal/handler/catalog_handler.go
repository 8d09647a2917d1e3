package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/catalog"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCatalog returns one filtered, sorted page of approved solutions.
func (h *Handler) ListCatalog(c echo.Context) error {
	log := logger.FromContext(c)

	var q catalog.Query
	if err := c.Bind(&q); err != nil {
		return badRequest(c, err)
	}
	solutions, err := h.Store.ListCatalog(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to list catalog")
	}
	page := catalog.Apply(solutions, q)

	log.Info("Catalog listed",
		zap.String("search", q.Search),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page))
	return c.JSON(http.StatusOK, page)
}

// GetCatalogSolution returns an approved solution.
func (h *Handler) GetCatalogSolution(c echo.Context) error {
	sol, err := h.Store.GetCatalogSolution(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to get catalog solution")
	}
	return c.JSON(http.StatusOK, sol)
}
