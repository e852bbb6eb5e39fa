package service

import (
	"context"
	"time"

	"todo_backend/internal/domain"
	"todo_backend/internal/logger"
)

// Result statuses
const (
	StatusCreated   = "created"
	StatusUpdated   = "updated"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// TaskStore is the persistence contract the service depends on. Implementations
// scope every call by tenant and run each call as one transactional unit.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, tenantID string, filter domain.StatusFilter) ([]*domain.Task, error)
	Get(ctx context.Context, tenantID string, id int64) (*domain.Task, bool, error)
	Update(ctx context.Context, tenantID string, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Complete(ctx context.Context, tenantID string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, tenantID string, id int64) (*domain.Task, error)
}

// EventPublisher receives committed task changes.
type EventPublisher interface {
	Publish(ev domain.TaskEvent)
}

// Result is the uniform shape returned by every mutating operation
type Result struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

// TaskService exposes the task operations. It holds no per-tenant state.
type TaskService struct {
	store  TaskStore
	events EventPublisher
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// WithEvents attaches a publisher for task change events
func (s *TaskService) WithEvents(p EventPublisher) *TaskService {
	s.events = p
	return s
}

// Add creates a pending task for tenantID.
func (s *TaskService) Add(ctx context.Context, tenantID, title, description string) (*Result, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	title, err = domain.NormalizeTitle(title)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	description, err = domain.NormalizeDescription(description)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	task := &domain.Task{TenantID: tenantID, Title: title, Description: description}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	s.done(ctx, "create", domain.TaskEventCreated, task)
	return &Result{ID: task.ID, Status: StatusCreated, Title: task.Title}, nil
}

// List returns the tenant's tasks newest first. No match yields an empty slice.
func (s *TaskService) List(ctx context.Context, tenantID, status string) ([]*domain.Task, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	filter, err := domain.ParseStatusFilter(status)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}

	tasks, err := s.store.List(ctx, tenantID, filter)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	if tasks == nil {
		tasks = make([]*domain.Task, 0)
	}
	operations.WithLabelValues("list", "ok").Inc()
	return tasks, nil
}

// Get looks a task up by id. found is false when it does not exist for tenantID.
func (s *TaskService) Get(ctx context.Context, tenantID string, id int64) (*domain.Task, bool, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, false, s.fail(ctx, "get", err)
	}
	if err := domain.ValidateTaskID(id); err != nil {
		return nil, false, s.fail(ctx, "get", err)
	}

	task, found, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return nil, false, s.fail(ctx, "get", err)
	}
	operations.WithLabelValues("get", "ok").Inc()
	return task, found, nil
}

// Update changes title and/or description. Nil leaves a field untouched.
func (s *TaskService) Update(ctx context.Context, tenantID string, id int64, title, description *string) (*Result, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}
	if err := domain.ValidateTaskID(id); err != nil {
		return nil, s.fail(ctx, "update", err)
	}
	patch, err := domain.NewTaskPatch(title, description)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	task, err := s.store.Update(ctx, tenantID, id, patch)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	s.done(ctx, "update", domain.TaskEventUpdated, task)
	return &Result{ID: task.ID, Status: StatusUpdated, Title: task.Title}, nil
}

// Complete marks a task done. Completing an already completed task succeeds.
func (s *TaskService) Complete(ctx context.Context, tenantID string, id int64) (*Result, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, s.fail(ctx, "complete", err)
	}
	if err := domain.ValidateTaskID(id); err != nil {
		return nil, s.fail(ctx, "complete", err)
	}

	task, err := s.store.Complete(ctx, tenantID, id)
	if err != nil {
		return nil, s.fail(ctx, "complete", err)
	}

	s.done(ctx, "complete", domain.TaskEventCompleted, task)
	return &Result{ID: task.ID, Status: StatusCompleted, Title: task.Title}, nil
}

// Delete removes a task permanently. A second delete of the same id fails with
// TaskNotFoundError.
func (s *TaskService) Delete(ctx context.Context, tenantID string, id int64) (*Result, error) {
	tenantID, err := domain.NormalizeTenantID(tenantID)
	if err != nil {
		return nil, s.fail(ctx, "delete", err)
	}
	if err := domain.ValidateTaskID(id); err != nil {
		return nil, s.fail(ctx, "delete", err)
	}

	task, err := s.store.Delete(ctx, tenantID, id)
	if err != nil {
		return nil, s.fail(ctx, "delete", err)
	}

	s.done(ctx, "delete", domain.TaskEventDeleted, task)
	return &Result{ID: task.ID, Status: StatusDeleted, Title: task.Title}, nil
}

func (s *TaskService) done(ctx context.Context, op, eventType string, task *domain.Task) {
	operations.WithLabelValues(op, "ok").Inc()
	logger.WithContext(ctx).Info("task "+op, "task_id", task.ID, "tenant_id", task.TenantID)

	if s.events != nil {
		s.events.Publish(domain.TaskEvent{
			Type:     eventType,
			TenantID: task.TenantID,
			TaskID:   task.ID,
			Title:    task.Title,
			At:       time.Now().UTC(),
		})
	}
}

// fail records the outcome and returns err unchanged.
func (s *TaskService) fail(ctx context.Context, op string, err error) error {
	log := logger.WithContext(ctx)
	switch {
	case domain.IsValidation(err):
		operations.WithLabelValues(op, "invalid").Inc()
		log.Debug("task "+op+" rejected", "error", err)
	case domain.IsNotFound(err):
		operations.WithLabelValues(op, "not_found").Inc()
		log.Debug("task "+op+" not found", "error", err)
	default:
		operations.WithLabelValues(op, "error").Inc()
		log.Error("task "+op+" failed", "error", err)
	}
	return err
}
