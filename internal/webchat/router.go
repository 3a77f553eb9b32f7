package webchat

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig configures NewRouter. A non-empty StaticDir is served for every unmatched route.
type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string
}

func NewRouter(handler Handler, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery(), CORS(cfg.AllowedOrigins))

	chat := NewChatHandler(handler, logger)

	r.GET("/healthz", Health)
	api := r.Group("/api/webchat")
	{
		api.POST("/messages", chat.PostMessage)
		api.POST("/conversations", chat.StartConversation)
	}

	if cfg.StaticDir != "" {
		r.NoRoute(staticFiles(cfg.StaticDir))
	}

	return r
}

// staticFiles serves files under dir, falling back to index.html.
func staticFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
