package middleware

import (
	"time"

	"github.com/bellavista/bellavista-backend/pkg/redis"
	"github.com/gin-gonic/gin"
)

// VisitorMiddleware bumps the daily visit counter. Counting must never slow
// down or fail a request, so errors are swallowed.
func VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _ = redis.CountVisit(c.Request.Context(), time.Now())
		c.Next()
	}
}
