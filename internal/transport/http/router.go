package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"statusboard/internal/middleware"
)

// NewRouter wires the API surface. limiter may be nil; it is only available
// when redis is configured.
func NewRouter(h *Handler, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Last-Event-ID"}
	r.Use(cors.New(config))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown action"})
	})

	api := r.Group("/api")
	{
		if limiter != nil {
			api.POST("/status", limiter.Limit("status", 120, 1*time.Minute), h.Status)
		} else {
			api.POST("/status", h.Status)
		}
		api.GET("/devices", h.Devices)
		api.POST("/update_online", h.UpdateOnline)
		api.GET("/get_online_users", h.OnlineUsers)
		api.GET("/server_info", h.ServerInfo)
		api.GET("/events", h.Events)
		api.GET("/list_bg_files", h.ListBackgroundFiles)
	}

	return r
}
