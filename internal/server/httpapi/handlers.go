package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
)

type Handler struct {
	auth      AuthService
	users     UserService
	bookmarks BookmarkService
	exports   ExportService
	logger    logging.Logger
}

func NewHandler(a AuthService, u UserService, b BookmarkService, e ExportService, logger logging.Logger) *Handler {
	return &Handler{
		auth:      a,
		users:     u,
		bookmarks: b,
		exports:   e,
		logger:    logger,
	}
}

type validatable interface {
	Validate() error
}

// bind decodes the JSON body into req and validates it. On failure the
// response has been written and false is returned.
func (h *Handler) bind(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, err)
		return false
	}
	return true
}

// bookmarkID returns the :id path parameter. An id that is not a UUID names
// no bookmark and is answered with 404.
func (h *Handler) bookmarkID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, errBookmarkNotFound)
		return "", false
	}
	return id.String(), true
}

func (h *Handler) bookmarkError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		err = errBookmarkNotFound
	}
	respondError(c, h.logger, err)
}

func (h *Handler) userError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		err = errUserNotFound
	}
	respondError(c, h.logger, err)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req AuthRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req AuthRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	p, err := h.users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.userError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) EditMe(c *gin.Context) {
	var req EditUserRequest
	if !h.bind(c, &req) {
		return
	}

	p, err := h.users.EditUser(c.Request.Context(), currentUserID(c), req.input())
	if err != nil {
		h.userError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListBookmarks(c *gin.Context) {
	list, err := h.bookmarks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": list})
}

func (h *Handler) CreateBookmark(c *gin.Context) {
	var req CreateBookmarkRequest
	if !h.bind(c, &req) {
		return
	}

	b, err := h.bookmarks.Create(c.Request.Context(), currentUserID(c), req.draft())
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBookmark(c *gin.Context) {
	id, ok := h.bookmarkID(c)
	if !ok {
		return
	}

	b, err := h.bookmarks.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) EditBookmark(c *gin.Context) {
	id, ok := h.bookmarkID(c)
	if !ok {
		return
	}

	var req EditBookmarkRequest
	if !h.bind(c, &req) {
		return
	}

	b, err := h.bookmarks.Update(c.Request.Context(), currentUserID(c), id, req.update())
	if err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBookmark(c *gin.Context) {
	id, ok := h.bookmarkID(c)
	if !ok {
		return
	}

	if err := h.bookmarks.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.bookmarkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmark successfully deleted"})
}

func (h *Handler) ExportBookmarks(c *gin.Context) {
	res, err := h.exports.Export(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
