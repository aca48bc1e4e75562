package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/services"
)

const testBookmarkID = "6f1c2a9e-0d3b-4a8e-9c47-1f2e3d4c5b6a"

type stubAuth struct {
	res *services.TokenResponse
	err error
}

func (s *stubAuth) SignUp(ctx context.Context, email, password string) (*services.TokenResponse, error) {
	return s.res, s.err
}

func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*services.TokenResponse, error) {
	return s.res, s.err
}

type stubUsers struct {
	profile *models.Profile
	err     error
	gotIn   services.EditUserInput
}

func (s *stubUsers) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profile, s.err
}

func (s *stubUsers) EditUser(ctx context.Context, userID string, in services.EditUserInput) (*models.Profile, error) {
	s.gotIn = in
	return s.profile, s.err
}

type stubBookmarks struct {
	list     []*models.Bookmark
	bookmark *models.Bookmark
	err      error
	gotUser  string
	gotID    string
}

func (s *stubBookmarks) List(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	s.gotUser = userID
	return s.list, s.err
}

func (s *stubBookmarks) Create(ctx context.Context, userID string, d models.BookmarkDraft) (*models.Bookmark, error) {
	s.gotUser = userID
	return s.bookmark, s.err
}

func (s *stubBookmarks) Get(ctx context.Context, userID, id string) (*models.Bookmark, error) {
	s.gotUser, s.gotID = userID, id
	return s.bookmark, s.err
}

func (s *stubBookmarks) Update(ctx context.Context, userID, id string, u models.BookmarkUpdate) (*models.Bookmark, error) {
	s.gotUser, s.gotID = userID, id
	return s.bookmark, s.err
}

func (s *stubBookmarks) Delete(ctx context.Context, userID, id string) error {
	s.gotUser, s.gotID = userID, id
	return s.err
}

type stubExports struct {
	res *services.ExportResult
	err error
}

func (s *stubExports) Export(ctx context.Context, userID string) (*services.ExportResult, error) {
	return s.res, s.err
}

// stubVerifier accepts "good" as user u-1 and "expired" as an expired token.
type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	switch token {
	case "good":
		return &auth.Claims{UserID: "u-1", Email: "alice@example.com"}, nil
	case "expired":
		return nil, common.ErrTokenExpired
	default:
		return nil, common.ErrInvalidToken
	}
}

type testDeps struct {
	auth      *stubAuth
	users     *stubUsers
	bookmarks *stubBookmarks
	exports   *stubExports
	logs      *bytes.Buffer
}

func newTestRouter(t *testing.T) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	d := &testDeps{
		auth:      &stubAuth{},
		users:     &stubUsers{},
		bookmarks: &stubBookmarks{},
		exports:   &stubExports{},
		logs:      &bytes.Buffer{},
	}
	logger := logging.NewJSONLogger(d.logs, "debug")
	h := NewHandler(d.auth, d.users, d.bookmarks, d.exports, logger)

	return NewRouter(RouterConfig{AllowedOrigins: "http://localhost:3000", Logger: logger}, h, stubVerifier{}), d
}

func do(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestSignUp(t *testing.T) {
	r, d := newTestRouter(t)
	d.auth.res = &services.TokenResponse{AccessToken: "tok"}

	w := do(t, r, http.MethodPost, "/auth/signup", "", `{"email":"alice@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tok", decode(t, w)["access_token"])
}

func TestSignIn(t *testing.T) {
	r, d := newTestRouter(t)
	d.auth.res = &services.TokenResponse{AccessToken: "tok"}

	w := do(t, r, http.MethodPost, "/auth/signin", "", `{"email":"alice@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok", decode(t, w)["access_token"])
}

func TestAuth_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "missing password", body: `{"email":"alice@example.com"}`},
		{name: "bad email", body: `{"email":"not-an-email","password":"pw"}`},
		{name: "malformed json", body: `{"email":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t)

			w := do(t, r, http.MethodPost, "/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestAuth_ValidationReportsFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/auth/signin", "", `{"email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "validation failed", body["error"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "invalid credentials", err: common.ErrInvalidCredentials, status: http.StatusForbidden, message: "credentials incorrect"},
		{name: "credentials taken", err: common.ErrCredentialsTaken, status: http.StatusForbidden, message: "credentials taken"},
		{name: "internal", err: errors.New("pq: password authentication failed for user postgres"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newTestRouter(t)
			d.auth.err = tt.err

			w := do(t, r, http.MethodPost, "/auth/signin", "", `{"email":"alice@example.com","password":"pw"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
		})
	}
}

func TestInternalErrorIsLoggedNotLeaked(t *testing.T) {
	r, d := newTestRouter(t)
	d.bookmarks.err = errors.New("db error: SQLSTATE 57P01")

	w := do(t, r, http.MethodGet, "/bookmarks", "good", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "SQLSTATE")
	assert.Contains(t, d.logs.String(), "SQLSTATE 57P01")
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "unauthorized"},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", message: "unauthorized"},
		{name: "empty token", header: "Bearer ", message: "unauthorized"},
		{name: "invalid token", header: "Bearer forged", message: "invalid token"},
		{name: "expired token", header: "Bearer expired", message: "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t)

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
		})
	}
}

func TestGetMe(t *testing.T) {
	r, d := newTestRouter(t)
	d.users.profile = &models.Profile{ID: "u-1", Email: "alice@example.com"}

	w := do(t, r, http.MethodGet, "/users/me", "good", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotContains(t, body, "hash")
	assert.NotContains(t, body, "PasswordHash")
}

func TestEditMe(t *testing.T) {
	r, d := newTestRouter(t)
	d.users.profile = &models.Profile{ID: "u-1", Email: "alice@example.com"}

	w := do(t, r, http.MethodPatch, "/users/me", "good", `{"firstName":"Alice","password":"new"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, d.users.gotIn.FirstName)
	assert.Equal(t, "Alice", *d.users.gotIn.FirstName)
	require.NotNil(t, d.users.gotIn.Password)
	assert.Nil(t, d.users.gotIn.Email)

	w = do(t, r, http.MethodPatch, "/users/me", "good", `{"firstName":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/users/me", "good", `{"email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d.users.err = common.ErrCredentialsTaken
	w = do(t, r, http.MethodPatch, "/users/me", "good", `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	d.users.err = common.ErrorNotFound
	w = do(t, r, http.MethodPatch, "/users/me", "good", `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", decode(t, w)["error"])
}

func TestBookmarks_ListAndCreate(t *testing.T) {
	r, d := newTestRouter(t)
	d.bookmarks.list = []*models.Bookmark{}

	w := do(t, r, http.MethodGet, "/bookmarks", "good", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookmarks":[]}`, w.Body.String())
	assert.Equal(t, "u-1", d.bookmarks.gotUser)

	d.bookmarks.bookmark = &models.Bookmark{ID: testBookmarkID, UserID: "u-1", Title: "Go", Link: "https://go.dev"}
	w = do(t, r, http.MethodPost, "/bookmarks", "good", `{"title":"Go","link":"https://go.dev"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u-1", decode(t, w)["userId"])

	w = do(t, r, http.MethodPost, "/bookmarks", "good", `{"title":"Go"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/bookmarks", "good", `{"title":"Go","link":"x","description":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d.bookmarks.err = common.ErrUnknownOwner
	w = do(t, r, http.MethodPost, "/bookmarks", "good", `{"title":"Go","link":"https://go.dev"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "the user does not exist", decode(t, w)["error"])
}

func TestBookmarks_GuardedRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		err    error
		status int
		msg    string
	}{
		{name: "get ok", method: http.MethodGet, status: http.StatusOK},
		{name: "get foreign", method: http.MethodGet, err: common.ErrAccessDenied, status: http.StatusForbidden, msg: "access to resource denied"},
		{name: "get missing", method: http.MethodGet, err: common.ErrorNotFound, status: http.StatusNotFound, msg: "bookmark not found"},
		{name: "patch ok", method: http.MethodPatch, body: `{"title":"new"}`, status: http.StatusOK},
		{name: "patch foreign", method: http.MethodPatch, body: `{"title":"new"}`, err: common.ErrAccessDenied, status: http.StatusForbidden},
		{name: "patch empty title", method: http.MethodPatch, body: `{"title":""}`, status: http.StatusBadRequest},
		{name: "delete ok", method: http.MethodDelete, status: http.StatusOK, msg: ""},
		{name: "delete missing", method: http.MethodDelete, err: common.ErrorNotFound, status: http.StatusNotFound, msg: "bookmark not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newTestRouter(t)
			d.bookmarks.bookmark = &models.Bookmark{ID: testBookmarkID, UserID: "u-1", Title: "new"}
			d.bookmarks.err = tt.err

			w := do(t, r, tt.method, "/bookmarks/"+testBookmarkID, "good", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decode(t, w)["error"])
			}
			if tt.status == http.StatusOK {
				assert.Equal(t, testBookmarkID, d.bookmarks.gotID)
				assert.Equal(t, "u-1", d.bookmarks.gotUser)
			}
		})
	}
}

func TestBookmarks_DeleteMessage(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodDelete, "/bookmarks/"+testBookmarkID, "good", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bookmark successfully deleted", decode(t, w)["message"])
}

func TestBookmarks_MalformedIDIsNotFound(t *testing.T) {
	r, d := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		w := do(t, r, method, "/bookmarks/42", "good", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	assert.Empty(t, d.bookmarks.gotID, "service never called")
}

func TestExportBookmarks(t *testing.T) {
	r, d := newTestRouter(t)
	d.exports.res = &services.ExportResult{Key: "exports/u-1/x.json", URL: "http://minio/x"}

	w := do(t, r, http.MethodPost, "/bookmarks/export", "good", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "exports/u-1/x.json", body["key"])
	assert.Equal(t, "http://minio/x", body["url"])

	d.exports.err = errors.New("s3 unreachable")
	w = do(t, r, http.MethodPost, "/bookmarks/export", "good", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthzAndCORS(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/bookmarks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	r, d := newTestRouter(t)
	d.bookmarks.list = []*models.Bookmark{}

	do(t, r, http.MethodGet, "/bookmarks", "good", "")

	logs := d.logs.String()
	assert.Contains(t, logs, `"msg":"http request"`)
	assert.Contains(t, logs, `"path":"/bookmarks"`)
	assert.Contains(t, logs, `"user_id":"u-1"`)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins(" http://a, ,http://b "))
	assert.Nil(t, splitOrigins(""))
}
