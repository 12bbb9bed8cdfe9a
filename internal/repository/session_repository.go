package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// SessionRepository persists exam session tokens.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a newly minted session.
func (r *SessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	const query = `INSERT INTO exam_sessions (token, exam_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.db.QueryRowxContext(ctx, query, session.Token, session.ExamID, session.ExpiresAt).Scan(&session.CreatedAt); err != nil {
		return fmt.Errorf("create exam session: %w", err)
	}
	return nil
}

// FindByToken returns the session or sql.ErrNoRows.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*models.ExamSession, error) {
	const query = `SELECT token, exam_id, created_at, expires_at FROM exam_sessions WHERE token = $1`
	var session models.ExamSession
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteExpired removes sessions that expired before cutoff.
func (r *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exam_sessions WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
