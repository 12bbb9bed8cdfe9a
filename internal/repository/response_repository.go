package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

const responseColumns = `id, student_id, exam_id, question_id, response, marks_obtained, feedback, created_at`

// ResponseRepository persists the append-only log of student answers.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository constructs the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Insert appends a response row and fills its ID and timestamp.
func (r *ResponseRepository) Insert(ctx context.Context, exec sqlx.ExtContext, resp *models.StudentResponse) error {
	const query = `INSERT INTO student_responses (student_id, exam_id, question_id, response, marks_obtained, feedback)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	row := pick(r.db, exec).QueryRowxContext(ctx, query, resp.StudentID, resp.ExamID, resp.QuestionID, resp.Response, resp.MarksObtained, resp.Feedback)
	if err := row.Scan(&resp.ID, &resp.CreatedAt); err != nil {
		return fmt.Errorf("insert student response: %w", err)
	}
	return nil
}

// FindByID returns a response row or sql.ErrNoRows.
func (r *ResponseRepository) FindByID(ctx context.Context, id int64) (*models.StudentResponse, error) {
	query := `SELECT ` + responseColumns + ` FROM student_responses WHERE id = $1`
	var resp models.StudentResponse
	if err := r.db.GetContext(ctx, &resp, query, id); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListByStudentExam returns every response of the pair, oldest first.
func (r *ResponseRepository) ListByStudentExam(ctx context.Context, examID, studentID int64) ([]models.StudentResponse, error) {
	query := `SELECT ` + responseColumns + ` FROM student_responses WHERE exam_id = $1 AND student_id = $2 ORDER BY id`
	var responses []models.StudentResponse
	if err := r.db.SelectContext(ctx, &responses, query, examID, studentID); err != nil {
		return nil, fmt.Errorf("list student responses: %w", err)
	}
	return responses, nil
}

// UpdateScore records the grading outcome of one response.
func (r *ResponseRepository) UpdateScore(ctx context.Context, exec sqlx.ExtContext, id int64, marks float64, feedback *string) error {
	const query = `UPDATE student_responses SET marks_obtained = $2, feedback = $3 WHERE id = $1`
	if _, err := pick(r.db, exec).ExecContext(ctx, query, id, marks, feedback); err != nil {
		return fmt.Errorf("update response %d score: %w", id, err)
	}
	return nil
}

// SumObtained totals marks_obtained across all rows of the pair.
func (r *ResponseRepository) SumObtained(ctx context.Context, exec sqlx.ExtContext, examID, studentID int64) (float64, error) {
	const query = `SELECT COALESCE(SUM(marks_obtained), 0) FROM student_responses WHERE exam_id = $1 AND student_id = $2`
	var total float64
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &total, query, examID, studentID); err != nil {
		return 0, fmt.Errorf("sum marks obtained: %w", err)
	}
	return total, nil
}
