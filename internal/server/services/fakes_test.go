package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/bookmarker/internal/dbx"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/bookmarker/internal/server/repositories/users"
)

// --- hasher / issuer ---

type fakeHasher struct {
	hashErr   error
	verifyErr error
	hashed    []string
	verified  []string
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.hashed = append(h.hashed, password)
	return "hashed:" + password, nil
}

func (h *fakeHasher) Verify(encoded, password string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	h.verified = append(h.verified, encoded)
	return strings.TrimPrefix(encoded, "hashed:") == password, nil
}

type fakeIssuer struct {
	err error
}

func (i *fakeIssuer) Issue(userID, email string) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return "token:" + userID + ":" + email, nil
}

// --- repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error

	updateOut *models.User
	updateErr error
	updated   *models.UserUpdate
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error) {
	f.updated = &u
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

type fakeBookmarksRepo struct {
	calls []string

	findOut *models.Bookmark
	findErr error

	createOut *models.Bookmark
	createErr error

	updateOut *models.Bookmark
	updateErr error

	deleteErr error

	listOut []*models.Bookmark
	listErr error
}

func (f *fakeBookmarksRepo) FindByID(ctx context.Context, id string) (*models.Bookmark, error) {
	f.calls = append(f.calls, "find")
	return f.findOut, f.findErr
}

func (f *fakeBookmarksRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Bookmark, error) {
	f.calls = append(f.calls, "find-for-update")
	return f.findOut, f.findErr
}

func (f *fakeBookmarksRepo) Create(ctx context.Context, ownerID string, d models.BookmarkDraft) (*models.Bookmark, error) {
	f.calls = append(f.calls, "create")
	return f.createOut, f.createErr
}

func (f *fakeBookmarksRepo) Update(ctx context.Context, id string, u models.BookmarkUpdate) (*models.Bookmark, error) {
	f.calls = append(f.calls, "update")
	return f.updateOut, f.updateErr
}

func (f *fakeBookmarksRepo) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeBookmarksRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Bookmark, error) {
	f.calls = append(f.calls, "list")
	return f.listOut, f.listErr
}

type fakeRepoMgr struct {
	users     *fakeUsersRepo
	bookmarks *fakeBookmarksRepo
}

func (m *fakeRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoMgr) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoMgr) Bookmarks(dbx.DBTX) bookmarks.Repository      { return m.bookmarks }

// fakeTx runs fn directly and records whether it was used.
type fakeTx struct {
	used int
	err  error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	f.used++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

var errDB = errors.New("connection refused")

func strPtr(s string) *string { return &s }
