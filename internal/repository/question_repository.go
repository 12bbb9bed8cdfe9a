package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

const questionColumns = `id, exam_id, category, question_type, content, marks, options, answer`

// QuestionRepository persists typed question rows.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs the repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateBatch inserts questions in order and assigns their IDs.
func (r *QuestionRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, questions []models.Question) error {
	target := pick(r.db, exec)
	const query = `INSERT INTO questions (exam_id, category, question_type, content, marks, options, answer)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	for i := range questions {
		q := &questions[i]
		if err := target.QueryRowxContext(ctx, query, q.ExamID, q.Category, q.Type, q.Content, q.Marks, q.Options, q.Answer).Scan(&q.ID); err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}
	return nil
}

// FindByID returns a question or sql.ErrNoRows.
func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	var q models.Question
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByExam returns the exam's questions in insertion order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID int64) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE exam_id = $1 ORDER BY id`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, examID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// FindByIDs returns the subset of ids that belong to the exam.
func (r *QuestionRepository) FindByIDs(ctx context.Context, examID int64, ids []int64) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE exam_id = $1 AND id = ANY($2) ORDER BY id`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, examID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	return questions, nil
}

// SumMarks totals the per-question marks of the exam.
func (r *QuestionRepository) SumMarks(ctx context.Context, exec sqlx.ExtContext, examID int64) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &total, `SELECT COALESCE(SUM(marks), 0) FROM questions WHERE exam_id = $1`, examID); err != nil {
		return 0, fmt.Errorf("sum question marks: %w", err)
	}
	return total, nil
}
