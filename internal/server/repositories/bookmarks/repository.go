package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/server/models"
)

// Repository is the bookmark half of the credential store. Lookups by id are
// not owner-scoped; ownership is checked by the caller.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Bookmark, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Bookmark, error)
	Create(ctx context.Context, ownerID string, draft models.BookmarkDraft) (*models.Bookmark, error)
	Update(ctx context.Context, id string, update models.BookmarkUpdate) (*models.Bookmark, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Bookmark, error)
}
