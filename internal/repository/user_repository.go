package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// UserRepository reads the usuarios table owned by the legacy boundary. The
// allocation flow only needs the requester's role.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindRole returns the role for a user id. A missing user yields an empty
// role and no error: the caller treats unknown requesters as unrestricted.
func (r *UserRepository) FindRole(ctx context.Context, id int64) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role, `SELECT tipo_de_usuario FROM usuarios WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return role, nil
}
