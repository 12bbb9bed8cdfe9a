package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/pkg/response"
)

type exportServer interface {
	ServeExport(ctx context.Context, token string) ([]byte, string, error)
}

// ExportHandler serves finished paper exports behind signed tokens.
type ExportHandler struct {
	exports exportServer
}

// NewExportHandler constructs an export handler.
func NewExportHandler(exports exportServer) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download an exported paper
// @Tags Exports
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	payload, filename, err := h.exports.ServeExport(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, "application/pdf", filename, payload)
}
