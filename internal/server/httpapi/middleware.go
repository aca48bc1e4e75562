package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
)

// requestLogger logs one line per request after it has been served.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if userID := c.GetString(ctxUserID); userID != "" {
			args = append(args, "user_id", userID)
		}
		logger.Info(c.Request.Context(), "http request", args...)
	}
}

// requireAuth rejects requests without a valid bearer token and stores the
// token's user in the gin context.
func requireAuth(verifier TokenVerifier, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			respondError(c, logger, errUnauthorized)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				err = common.ErrInvalidToken
			}
			respondError(c, logger, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
