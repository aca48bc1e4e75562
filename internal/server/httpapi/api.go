// Package httpapi exposes the services over HTTP with gin: request
// validation, bearer authentication, and mapping of service errors to
// status codes.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/services"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*services.TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*services.TokenResponse, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	EditUser(ctx context.Context, userID string, in services.EditUserInput) (*models.Profile, error)
}

type BookmarkService interface {
	List(ctx context.Context, userID string) ([]*models.Bookmark, error)
	Create(ctx context.Context, userID string, draft models.BookmarkDraft) (*models.Bookmark, error)
	Get(ctx context.Context, userID, bookmarkID string) (*models.Bookmark, error)
	Update(ctx context.Context, userID, bookmarkID string, update models.BookmarkUpdate) (*models.Bookmark, error)
	Delete(ctx context.Context, userID, bookmarkID string) error
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*services.ExportResult, error)
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}
