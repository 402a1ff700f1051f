// Package httpapi serves a local read-only view of the deck, history,
// templates and preferences.
package httpapi

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

func New(repo storage.Repository, logger *log.Logger) *gin.Engine {
	h := &Handler{repo: repo, logger: logger}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.GET("/state", h.GetState)
	api.GET("/history", h.ListHistory)
	api.GET("/history/summary", h.SummarizeHistory)
	api.GET("/templates", h.ListTemplates)
	api.GET("/preferences", h.GetPreferences)

	engine.NoRoute(func(c *gin.Context) {
		writeError(c, notFound("not_found", "route not found"))
	})
	return engine
}
