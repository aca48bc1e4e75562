package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/repomanager"
)

type AuthService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(db dbx.DBTX, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// SignUp registers email with a freshly hashed password and returns an
// access token for the new user.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrUniqueViolation) {
			return nil, common.ErrCredentialsTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issueToken(user.ID, user.Email)
}

// SignIn checks the credentials and returns an access token. An unknown
// email and a wrong password fail identically.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same hashing work as a real check
			s.verifyDecoy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueToken(user.ID, user.Email)
}

func (s *AuthService) issueToken(userID, email string) (*TokenResponse, error) {
	token, err := s.tokens.Issue(userID, email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &TokenResponse{AccessToken: token}, nil
}

func (s *AuthService) verifyDecoy(password string) {
	s.decoyOnce.Do(func() {
		h, err := common.MakeRandHexString(16)
		if err == nil {
			s.decoyHash, _ = s.hasher.Hash(h)
		}
	})
	if s.decoyHash != "" {
		_, _ = s.hasher.Verify(s.decoyHash, password)
	}
}
