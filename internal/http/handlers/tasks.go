package handlers

import (
	"net/http"
	"strings"

	"todo_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ListTasks handles GET /tasks?status=all|pending|completed
func (h *Handler) ListTasks(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	status := c.Query("status")
	tasks, err := h.Tasks.List(c.Request.Context(), tenantID, status)
	if err != nil {
		writeError(c, err)
		return
	}

	filter := strings.TrimSpace(status)
	if filter == "" {
		filter = string(domain.StatusAll)
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":  tasks,
		"total":  len(tasks),
		"filter": filter,
	})
}

// CreateTask handles POST /tasks
func (h *Handler) CreateTask(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "request body must be a JSON object"))
		return
	}

	res, err := h.Tasks.Add(c.Request.Context(), tenantID, req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetTask handles GET /tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, err := taskID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	task, found, err := h.Tasks.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		writeError(c, &domain.TaskNotFoundError{TaskID: id, TenantID: tenantID})
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, err := taskID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "request body must be a JSON object"))
		return
	}

	res, err := h.Tasks.Update(c.Request.Context(), tenantID, id, req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CompleteTask handles PATCH /tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, err := taskID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.Tasks.Complete(c.Request.Context(), tenantID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteTask handles DELETE /tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, err := taskID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.Tasks.Delete(c.Request.Context(), tenantID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      res.ID,
		"title":   res.Title,
	})
}
