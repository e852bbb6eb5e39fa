package middleware

import (
	"strings"

	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TenantKey is the gin context key holding the authenticated tenant id.
const TenantKey = "tenant_id"

// JWT requires an Authorization: Bearer token and stores its subject under TenantKey.
func JWT(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		tenantID, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(TenantKey, tenantID)
		c.Next()
	}
}
