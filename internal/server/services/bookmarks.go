package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/repomanager"
)

type BookmarkService struct {
	db          dbx.DBTX
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
}

func NewBookmarkService(db dbx.DBTX, tx dbx.Transactor, m repomanager.RepositoryManager) *BookmarkService {
	return &BookmarkService{
		db:          db,
		tx:          tx,
		repomanager: m,
	}
}

// List returns the caller's bookmarks; never nil.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	list, err := s.repomanager.Bookmarks(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing bookmarks: %w", err)
	}
	if list == nil {
		list = []*models.Bookmark{}
	}
	return list, nil
}

// Create stores a bookmark owned by userID.
func (s *BookmarkService) Create(ctx context.Context, userID string, draft models.BookmarkDraft) (*models.Bookmark, error) {
	b, err := s.repomanager.Bookmarks(s.db).Create(ctx, userID, draft)
	if err != nil {
		if errors.Is(err, common.ErrForeignKeyViolation) {
			return nil, common.ErrUnknownOwner
		}
		return nil, fmt.Errorf("error creating bookmark: %w", err)
	}
	return b, nil
}

// Get returns bookmarkID if userID owns it.
func (s *BookmarkService) Get(ctx context.Context, userID, bookmarkID string) (*models.Bookmark, error) {
	return authorizeOwner(ctx, userID, bookmarkID, s.repomanager.Bookmarks(s.db).FindByID)
}

// Update applies update to bookmarkID if userID owns it. The ownership check
// and the write share one transaction with the row locked.
func (s *BookmarkService) Update(ctx context.Context, userID, bookmarkID string, update models.BookmarkUpdate) (*models.Bookmark, error) {
	var updated *models.Bookmark

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Bookmarks(tx)

		current, err := authorizeOwner(ctx, userID, bookmarkID, repo.FindByIDForUpdate)
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			updated = current
			return nil
		}

		b, err := repo.Update(ctx, bookmarkID, update)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error updating bookmark: %w", err)
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes bookmarkID if userID owns it.
func (s *BookmarkService) Delete(ctx context.Context, userID, bookmarkID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Bookmarks(tx)

		if _, err := authorizeOwner(ctx, userID, bookmarkID, repo.FindByIDForUpdate); err != nil {
			return err
		}

		if err := repo.Delete(ctx, bookmarkID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error deleting bookmark: %w", err)
		}
		return nil
	})
}
