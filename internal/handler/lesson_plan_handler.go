package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/pkg/response"
)

type lessonPlanService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateLessonPlanRequest) (*models.LessonPlan, error)
	Get(ctx context.Context, id int64) (*models.LessonPlan, error)
	List(ctx context.Context, actor models.Actor) ([]models.LessonPlan, error)
}

// LessonPlanHandler exposes lesson plan endpoints.
type LessonPlanHandler struct {
	service lessonPlanService
}

// NewLessonPlanHandler constructs a lesson plan handler.
func NewLessonPlanHandler(svc lessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{service: svc}
}

// Create godoc
// @Summary Create a lesson plan
// @Tags LessonPlans
// @Accept json
// @Produce json
// @Param payload body dto.CreateLessonPlanRequest true "Lesson plan"
// @Success 201 {object} response.Envelope
// @Router /lesson-plans [post]
func (h *LessonPlanHandler) Create(c *gin.Context) {
	var req dto.CreateLessonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	plan, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Get godoc
// @Summary Get a lesson plan
// @Tags LessonPlans
// @Produce json
// @Param id path int true "Lesson plan ID"
// @Success 200 {object} response.Envelope
// @Router /lesson-plans/{id} [get]
func (h *LessonPlanHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	plan, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, plan)
}

// List godoc
// @Summary List the caller's lesson plans
// @Tags LessonPlans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lesson-plans [get]
func (h *LessonPlanHandler) List(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, plans)
}
