package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// mapError translates driver errors into common sentinels.
func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return fmt.Errorf("db error: %w: %w", common.ErrUniqueViolation, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, hash, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, hash, first_name, last_name, created_at, updated_at
		 `

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName))
	if err != nil {
		return nil, mapError(err)
	}

	return created, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE email = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, hash, first_name, last_name, created_at, updated_at FROM users
		 WHERE id = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// Update applies the non-nil fields of update. Absent fields keep their
// stored value via COALESCE.
func (r *PostgresRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	query :=
		`UPDATE users SET
		   email = COALESCE($2, email),
		   hash = COALESCE($3, hash),
		   first_name = COALESCE($4, first_name),
		   last_name = COALESCE($5, last_name),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, hash, first_name, last_name, created_at, updated_at
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		id, update.Email, update.PasswordHash, update.FirstName, update.LastName))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}
