package memory

import (
	"context"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.FirstName = cloneStr(u.FirstName)
	c.LastName = cloneStr(u.LastName)
	return &c
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[user.Email]; taken {
		return nil, common.ErrUniqueViolation
	}

	now := r.s.now()
	u := copyUser(user)
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.s.users[u.ID] = u
	r.s.emails[u.Email] = u.ID

	return copyUser(u), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(r.s.users[id]), nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *userRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if update.Email != nil && *update.Email != u.Email {
		if _, taken := r.s.emails[*update.Email]; taken {
			return nil, common.ErrUniqueViolation
		}
		delete(r.s.emails, u.Email)
		u.Email = *update.Email
		r.s.emails[u.Email] = u.ID
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.FirstName != nil {
		u.FirstName = cloneStr(update.FirstName)
	}
	if update.LastName != nil {
		u.LastName = cloneStr(update.LastName)
	}
	u.UpdatedAt = r.s.now()

	return copyUser(u), nil
}
