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

// EditUserInput is a sparse profile change; nil fields stay untouched.
type EditUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher PasswordHasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
	}
}

// GetProfile returns the public view of the user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user.Profile(), nil
}

// EditUser applies in to the user. A new password is hashed before it
// reaches the store.
func (s *UserService) EditUser(ctx context.Context, userID string, in EditUserInput) (*models.Profile, error) {
	update := models.UserUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		update.PasswordHash = &hash
	}

	if update.IsEmpty() {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUniqueViolation):
			return nil, common.ErrCredentialsTaken
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		default:
			return nil, fmt.Errorf("error updating user: %w", err)
		}
	}

	return user.Profile(), nil
}
