package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

// UserRepository reads users synced from the auth provider.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user or sql.ErrNoRows.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, external_auth_id, name, email, role FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByExternalAuthID resolves the user behind an identity token subject.
func (r *UserRepository) FindByExternalAuthID(ctx context.Context, externalID string) (*models.User, error) {
	const query = `SELECT id, external_auth_id, name, email, role FROM users WHERE external_auth_id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, externalID); err != nil {
		return nil, err
	}
	return &user, nil
}
