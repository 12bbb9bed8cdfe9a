package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// ExamRepository persists exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// Create inserts exam and fills its generated columns.
func (r *ExamRepository) Create(ctx context.Context, exec sqlx.ExtContext, exam *models.Exam) error {
	if exam.Status == "" {
		exam.Status = models.ExamStatusScheduled
	}
	const query = `INSERT INTO exams (teacher_id, class_id, title, description, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`
	row := pick(r.db, exec).QueryRowxContext(ctx, query, exam.TeacherID, exam.ClassID, exam.Title, exam.Description, exam.Status)
	if err := row.Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// FindByID returns the exam or sql.ErrNoRows.
func (r *ExamRepository) FindByID(ctx context.Context, id int64) (*models.Exam, error) {
	const query = `SELECT id, teacher_id, class_id, title, description, status, created_at, updated_at FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// UpdateStatus moves the exam to status.
func (r *ExamRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.ExamStatus) error {
	const query = `UPDATE exams SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := pick(r.db, exec).ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update exam status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update exam status: exam %d not found", id)
	}
	return nil
}

// CompleteIfFullyGraded marks the exam completed once every student with a
// response has a marks row and no session for the exam is still live. It
// reports whether the status changed.
func (r *ExamRepository) CompleteIfFullyGraded(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error) {
	const query = `UPDATE exams SET status = 'completed', updated_at = NOW()
WHERE id = $1 AND status <> 'completed'
AND EXISTS (SELECT 1 FROM student_responses r WHERE r.exam_id = $1)
AND NOT EXISTS (
    SELECT 1 FROM student_responses r
    WHERE r.exam_id = $1
    AND NOT EXISTS (SELECT 1 FROM marks m WHERE m.exam_id = r.exam_id AND m.student_id = r.student_id)
)
AND NOT EXISTS (SELECT 1 FROM exam_sessions s WHERE s.exam_id = $1 AND s.expires_at > NOW())`
	res, err := pick(r.db, exec).ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("complete exam: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete exam rows affected: %w", err)
	}
	return n > 0, nil
}
