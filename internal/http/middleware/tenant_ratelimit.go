package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TenantRateLimit limits requests per tenant (not per IP). Requires JWT to run
// before it.
func TenantRateLimit(counter Counter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString(TenantKey)
		if tenantID == "" {
			unauthorized(c, "missing tenant")
			return
		}

		key := "tenant_rl:" + tenantID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		if !limit(c, counter, key, "tenant:"+c.FullPath(), maxRequests, window) {
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
