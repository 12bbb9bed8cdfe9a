package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// LessonPlanRepository persists lesson plans.
type LessonPlanRepository struct {
	db *sqlx.DB
}

// NewLessonPlanRepository constructs the repository.
func NewLessonPlanRepository(db *sqlx.DB) *LessonPlanRepository {
	return &LessonPlanRepository{db: db}
}

// Create inserts a plan.
func (r *LessonPlanRepository) Create(ctx context.Context, plan *models.LessonPlan) error {
	const query = `INSERT INTO lesson_plans (teacher_id, topic, duration_hours, plan) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, plan.TeacherID, plan.Topic, plan.DurationHours, plan.Plan).Scan(&plan.ID); err != nil {
		return fmt.Errorf("create lesson plan: %w", err)
	}
	return nil
}

// FindByID returns a plan or sql.ErrNoRows.
func (r *LessonPlanRepository) FindByID(ctx context.Context, id int64) (*models.LessonPlan, error) {
	const query = `SELECT id, teacher_id, topic, duration_hours, plan FROM lesson_plans WHERE id = $1`
	var plan models.LessonPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByTeacher returns the teacher's plans, newest first.
func (r *LessonPlanRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.LessonPlan, error) {
	const query = `SELECT id, teacher_id, topic, duration_hours, plan FROM lesson_plans WHERE teacher_id = $1 ORDER BY id DESC`
	var plans []models.LessonPlan
	if err := r.db.SelectContext(ctx, &plans, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lesson plans: %w", err)
	}
	return plans, nil
}
