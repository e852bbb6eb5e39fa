package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me reports the tenant the bearer token resolves to.
func (h *Handler) Me(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID})
}
