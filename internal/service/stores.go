package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type examStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, exam *models.Exam) error
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.ExamStatus) error
	CompleteIfFullyGraded(ctx context.Context, exec sqlx.ExtContext, id int64) (bool, error)
}

type questionStore interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, questions []models.Question) error
	FindByID(ctx context.Context, id int64) (*models.Question, error)
	ListByExam(ctx context.Context, examID int64) ([]models.Question, error)
	FindByIDs(ctx context.Context, examID int64, ids []int64) ([]models.Question, error)
	SumMarks(ctx context.Context, exec sqlx.ExtContext, examID int64) (int, error)
}

type sessionStore interface {
	Create(ctx context.Context, session *models.ExamSession) error
	FindByToken(ctx context.Context, token string) (*models.ExamSession, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type responseStore interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, resp *models.StudentResponse) error
	FindByID(ctx context.Context, id int64) (*models.StudentResponse, error)
	ListByStudentExam(ctx context.Context, examID, studentID int64) ([]models.StudentResponse, error)
	UpdateScore(ctx context.Context, exec sqlx.ExtContext, id int64, marks float64, feedback *string) error
	SumObtained(ctx context.Context, exec sqlx.ExtContext, examID, studentID int64) (float64, error)
}

type marksStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, marks *models.Marks) error
	FindByStudentExam(ctx context.Context, examID, studentID int64) (*models.Marks, error)
	Stats(ctx context.Context, examID int64) ([]models.ExamStat, error)
}

// lookup maps a missing row to "<entity> not found" and anything else to an
// internal error.
func lookup(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return internal(err, "failed to load "+strings.ToLower(entity))
}

func internal(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validation(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func upstream(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, message)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
