package users

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/server/models"
)

// Repository is the user half of the credential store. Implementations
// enforce email uniqueness and report it as common.ErrUniqueViolation.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
}
