package handlers

import (
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware lets the browser UI call the API. No origins, or "*",
// allows any origin.
func CORSMiddleware(origins []string) (gin.HandlerFunc, error) {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS origins: %w", err)
	}
	return cors.New(config), nil
}
