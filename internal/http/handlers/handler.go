package handlers

import (
	"net/http"
	"strconv"

	"todo_backend/internal/domain"
	"todo_backend/internal/http/middleware"
	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}

// getTenantID returns the tenant id set by the JWT middleware
func getTenantID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.TenantKey)
	if !ok {
		return "", false
	}
	tenantID, ok := v.(string)
	return tenantID, ok && tenantID != ""
}

// taskID parses the :id path parameter
func taskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("task_id", "task_id must be a positive integer")
	}
	return id, nil
}

func writeError(c *gin.Context, err error) {
	payload := service.DescribeError(err)
	c.AbortWithStatusJSON(payload.StatusCode, payload)
}

func requireTenant(c *gin.Context) (string, bool) {
	tenantID, ok := getTenantID(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "tenant not found"})
	}
	return tenantID, ok
}
