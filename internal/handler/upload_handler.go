package handler

import (
	"net/http"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Upload stores the multipart "file" field under the kind named in the path.
func (h *Handler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		logger.FromContext(c).Warn("Upload without file field", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, err)
	}
	defer f.Close()

	res, err := h.Uploads.Upload(c.Request().Context(), c.Param("kind"), requester(c).AuthID, f)
	if err != nil {
		return respondError(c, err, "Failed to upload file")
	}
	return c.JSON(http.StatusCreated, res)
}
