package memory

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/google/uuid"
)

type bookmarkRepository struct {
	s *Store
}

func copyBookmark(b *models.Bookmark) *models.Bookmark {
	c := *b
	c.Description = cloneStr(b.Description)
	return &c
}

func (r *bookmarkRepository) FindByID(ctx context.Context, id string) (*models.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookmarks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyBookmark(b), nil
}

// FindByIDForUpdate relies on Store.WithinTx for exclusion.
func (r *bookmarkRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Bookmark, error) {
	return r.FindByID(ctx, id)
}

func (r *bookmarkRepository) Create(ctx context.Context, ownerID string, draft models.BookmarkDraft) (*models.Bookmark, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ownerID]; !ok {
		return nil, common.ErrForeignKeyViolation
	}

	now := r.s.now()
	b := &models.Bookmark{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       draft.Title,
		Description: cloneStr(draft.Description),
		Link:        draft.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.bookmarks[b.ID] = b
	r.s.order = append(r.s.order, b.ID)

	return copyBookmark(b), nil
}

func (r *bookmarkRepository) Update(ctx context.Context, id string, update models.BookmarkUpdate) (*models.Bookmark, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookmarks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if update.Title != nil {
		b.Title = *update.Title
	}
	if update.Description != nil {
		b.Description = cloneStr(update.Description)
	}
	if update.Link != nil {
		b.Link = *update.Link
	}
	b.UpdatedAt = r.s.now()

	return copyBookmark(b), nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookmarks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.bookmarks, id)
	r.s.order = slices.DeleteFunc(r.s.order, func(v string) bool { return v == id })

	return nil
}

// ListByOwner returns bookmarks in creation order. The slice is never nil.
func (r *bookmarkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Bookmark, 0)
	for _, id := range r.s.order {
		if b := r.s.bookmarks[id]; b.UserID == ownerID {
			result = append(result, copyBookmark(b))
		}
	}
	return result, nil
}
