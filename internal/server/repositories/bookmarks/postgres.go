// Package bookmarks provides repositories for bookmark persistence.
package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
)

// PostgresRepository implements bookmark storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectBookmark = `SELECT id, user_id, title, description, link, created_at, updated_at FROM bookmarks`

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row scanner) (*models.Bookmark, error) {
	b := &models.Bookmark{}
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Link, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsForeignKeyViolation(err):
		return fmt.Errorf("db error: %w: %w", common.ErrForeignKeyViolation, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

// FindByID returns the bookmark with the given id regardless of owner.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Bookmark, error) {
	b, err := scanBookmark(r.db.QueryRowContext(ctx, selectBookmark+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// FindByIDForUpdate is FindByID with a row lock; it must run inside a
// transaction for the lock to outlive the statement.
func (r *PostgresRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Bookmark, error) {
	b, err := scanBookmark(r.db.QueryRowContext(ctx, selectBookmark+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// Create inserts a bookmark owned by ownerID. A missing owner row surfaces as
// common.ErrForeignKeyViolation.
func (r *PostgresRepository) Create(ctx context.Context, ownerID string, draft models.BookmarkDraft) (*models.Bookmark, error) {
	query :=
		`INSERT INTO bookmarks (user_id, title, description, link)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, title, description, link, created_at, updated_at
		 `

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, ownerID, draft.Title, draft.Description, draft.Link))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// Update applies the non-nil fields of update. user_id is never written.
func (r *PostgresRepository) Update(ctx context.Context, id string, update models.BookmarkUpdate) (*models.Bookmark, error) {
	query :=
		`UPDATE bookmarks SET
		   title = COALESCE($2, title),
		   description = COALESCE($3, description),
		   link = COALESCE($4, link),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, user_id, title, description, link, created_at, updated_at
		 `

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id, update.Title, update.Description, update.Link))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ListByOwner returns ownerID's bookmarks, oldest first. The slice is never nil.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, selectBookmark+` WHERE user_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
