package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookmarker/internal/common"
	"github.com/dmitrijs2005/bookmarker/internal/logging"
)

// RouterConfig carries the transport-level settings.
type RouterConfig struct {
	AllowedOrigins string // comma-separated
	Logger         logging.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig, h *Handler, verifier TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))

	if origins := splitOrigins(cfg.AllowedOrigins); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", common.AuthorizationHeaderName}
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/auth")
	authGroup.POST("/signup", h.SignUp)
	authGroup.POST("/signin", h.SignIn)

	protected := router.Group("")
	protected.Use(requireAuth(verifier, cfg.Logger))

	protected.GET("/users/me", h.GetMe)
	protected.PATCH("/users/me", h.EditMe)

	protected.GET("/bookmarks", h.ListBookmarks)
	protected.POST("/bookmarks", h.CreateBookmark)
	protected.POST("/bookmarks/export", h.ExportBookmarks)
	protected.GET("/bookmarks/:id", h.GetBookmark)
	protected.PATCH("/bookmarks/:id", h.EditBookmark)
	protected.DELETE("/bookmarks/:id", h.DeleteBookmark)

	return router
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
