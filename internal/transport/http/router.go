package http

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/internal/transport/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	JWTSecret      string
	StaticDir      string
}

// NewRouter wires every HTTP route. wsHandler serves the table socket.
func NewRouter(cfg RouterConfig, tables *TableHandler, history *HistoryHandler, wsHandler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/tables", tables.CreateTable)
		api.GET("/tables", tables.ListTables)
		api.GET("/results/recent", history.GetRecent)
		api.GET("/scoreboard", history.GetScoreboard)
	}

	// Table-scoped routes need that table's token
	seated := api.Group("/tables/:id")
	seated.Use(middleware.TableAuthMiddleware(cfg.JWTSecret))
	{
		seated.GET("", tables.GetTable)
		seated.DELETE("", tables.CloseTable)
		seated.GET("/history", history.GetTableHistory)
		seated.GET("/history/:game", history.GetGameDetails)
	}

	// WebSocket route (auth handled by the init frame)
	router.GET("/ws", wsHandler)

	// Serve static frontend files (SPA fallback)
	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			router.Static("/assets", cfg.StaticDir+"/assets")
			router.GET("/", func(c *gin.Context) {
				c.File(cfg.StaticDir + "/index.html")
			})
			router.NoRoute(func(c *gin.Context) {
				if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/assets/") {
					c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
					return
				}
				c.File(cfg.StaticDir + "/index.html")
			})
		}
	}

	return router
}
