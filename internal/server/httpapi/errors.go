package httpapi

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
)

var (
	errBookmarkNotFound = notFound("bookmark not found")
	errUserNotFound     = notFound("user not found")
	errInvalidBody      = errors.New("invalid request body")
	errUnauthorized     = errors.New("unauthorized")
)

// notFoundError keeps its own message but matches common.ErrorNotFound.
type notFoundError string

func notFound(msg string) error { return notFoundError(msg) }

func (e notFoundError) Error() string        { return string(e) }
func (e notFoundError) Is(target error) bool { return target == common.ErrorNotFound }

// statusFor maps a service error to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs), errors.Is(err, errInvalidBody), errors.Is(err, common.ErrUnknownOwner):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrCredentialsTaken), errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": msg} for err. Server errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, logger logging.Logger, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": common.ErrorInternal.Error()})
		return
	}

	body := gin.H{"error": err.Error()}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body["error"] = "validation failed"
		body["fields"] = verrs
	}

	c.AbortWithStatusJSON(status, body)
}
