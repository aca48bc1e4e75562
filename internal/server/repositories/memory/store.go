// Package memory provides an in-process implementation of the repositories
// for development runs and tests. It satisfies the same contracts as the
// PostgreSQL repositories, including email uniqueness and owner foreign keys.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/users"
)

// Store holds users and bookmarks in maps guarded by one RWMutex.
//
// WithinTx serializes units of work but does not roll back: a failing fn
// keeps whatever writes it already made.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	users     map[string]*models.User
	emails    map[string]string
	bookmarks map[string]*models.Bookmark
	order     []string
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		emails:    make(map[string]string),
		bookmarks: make(map[string]*models.Bookmark),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Users ignores db; all repositories share the store's maps.
func (s *Store) Users(dbx.DBTX) users.Repository {
	return &userRepository{s: s}
}

func (s *Store) Bookmarks(dbx.DBTX) bookmarks.Repository {
	return &bookmarkRepository{s: s}
}

// RunMigrations is a no-op; the maps need no schema.
func (s *Store) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// WithinTx runs fn while holding the store's transaction lock. The DBTX
// passed to fn is nil; memory repositories never use it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
