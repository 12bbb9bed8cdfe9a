package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

type lessonPlanRepository interface {
	Create(ctx context.Context, plan *models.LessonPlan) error
	FindByID(ctx context.Context, id int64) (*models.LessonPlan, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.LessonPlan, error)
}

// LessonPlanService stores teachers' lesson plans.
type LessonPlanService struct {
	repo      lessonPlanRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonPlanService constructs the service.
func NewLessonPlanService(repo lessonPlanRepository, validate *validator.Validate, logger *zap.Logger) *LessonPlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonPlanService{repo: repo, validator: validate, logger: logger}
}

// Create persists a plan owned by the actor.
func (s *LessonPlanService) Create(ctx context.Context, actor models.Actor, req dto.CreateLessonPlanRequest) (*models.LessonPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid lesson plan payload")
	}
	if !json.Valid(req.Plan) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "plan must be valid JSON")
	}
	plan := &models.LessonPlan{
		TeacherID:     actor.UserID,
		Topic:         req.Topic,
		DurationHours: req.DurationHours,
		Plan:          types.JSONText(req.Plan),
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, internal(err, "failed to create lesson plan")
	}
	return plan, nil
}

// Get returns a plan by id.
func (s *LessonPlanService) Get(ctx context.Context, id int64) (*models.LessonPlan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Lesson plan")
	}
	return plan, nil
}

// List returns the actor's plans.
func (s *LessonPlanService) List(ctx context.Context, actor models.Actor) ([]models.LessonPlan, error) {
	plans, err := s.repo.ListByTeacher(ctx, actor.UserID)
	if err != nil {
		return nil, internal(err, "failed to list lesson plans")
	}
	if plans == nil {
		plans = []models.LessonPlan{}
	}
	return plans, nil
}
