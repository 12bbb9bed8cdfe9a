package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/pkg/response"
)

type announcementService interface {
	Generate(ctx context.Context, actor models.Actor, req dto.GenerateAnnouncementRequest) (*dto.GenerateAnnouncementResponse, error)
	Send(ctx context.Context, req dto.SendAnnouncementRequest) (*dto.SendAnnouncementResponse, error)
}

// AnnouncementHandler exposes announcement endpoints.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs an announcement handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// Generate godoc
// @Summary Formalise an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.GenerateAnnouncementRequest true "Raw announcement"
// @Success 201 {object} response.Envelope
// @Router /announce/generate [post]
func (h *AnnouncementHandler) Generate(c *gin.Context) {
	var req dto.GenerateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Send godoc
// @Summary Send an announcement over a channel
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.SendAnnouncementRequest true "Delivery request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /announce/send [post]
func (h *AnnouncementHandler) Send(c *gin.Context) {
	var req dto.SendAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
