package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser calls from origins. An empty list allows any origin
// without credentials.
func CORS(origins []string, methods ...string) gin.HandlerFunc {
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "OPTIONS"}
	}
	cfg := cors.Config{
		AllowMethods:  methods,
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
