package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// MarksRepository persists per-student grading summaries.
type MarksRepository struct {
	db *sqlx.DB
}

// NewMarksRepository constructs the repository.
func NewMarksRepository(db *sqlx.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

// Upsert writes the single marks row of (student, exam). Concurrent writers
// race with last-commit-wins semantics.
func (r *MarksRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, marks *models.Marks) error {
	const query = `INSERT INTO marks (student_id, exam_id, total_marks, max_marks, results, graded_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (student_id, exam_id) DO UPDATE SET
    total_marks = EXCLUDED.total_marks,
    max_marks = EXCLUDED.max_marks,
    results = EXCLUDED.results,
    graded_at = EXCLUDED.graded_at
RETURNING id, graded_at`
	row := pick(r.db, exec).QueryRowxContext(ctx, query, marks.StudentID, marks.ExamID, marks.TotalMarks, marks.MaxMarks, marks.Results)
	if err := row.Scan(&marks.ID, &marks.GradedAt); err != nil {
		return fmt.Errorf("upsert marks: %w", err)
	}
	return nil
}

// FindByStudentExam returns the marks row or sql.ErrNoRows.
func (r *MarksRepository) FindByStudentExam(ctx context.Context, examID, studentID int64) (*models.Marks, error) {
	const query = `SELECT id, student_id, exam_id, total_marks, max_marks, results, graded_at
FROM marks WHERE exam_id = $1 AND student_id = $2`
	var marks models.Marks
	if err := r.db.GetContext(ctx, &marks, query, examID, studentID); err != nil {
		return nil, err
	}
	return &marks, nil
}

// Stats lists graded students of the exam in insertion order. Students
// missing from users are reported as "Student <id>".
func (r *MarksRepository) Stats(ctx context.Context, examID int64) ([]models.ExamStat, error) {
	const query = `SELECT m.student_id, COALESCE(u.name, 'Student ' || m.student_id::text) AS name, m.total_marks, m.max_marks
FROM marks m
LEFT JOIN users u ON u.id = m.student_id
WHERE m.exam_id = $1
ORDER BY m.id`
	var stats []models.ExamStat
	if err := r.db.SelectContext(ctx, &stats, query, examID); err != nil {
		return nil, fmt.Errorf("exam stats: %w", err)
	}
	return stats, nil
}
