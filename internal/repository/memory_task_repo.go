package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo_backend/internal/domain"
)

// MemoryTaskRepository keeps tasks in process memory. Ids come from one counter
// shared by all tenants and are never reused.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	nextID int64
	now    func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests.
func (r *MemoryTaskRepository) WithClock(now func() time.Time) *MemoryTaskRepository {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	return r
}

func (r *MemoryTaskRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapStoreError("create", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t.ID = r.nextID
	t.Completed = false
	t.CreatedAt = now
	t.UpdatedAt = now
	r.nextID++

	stored := *t
	r.tasks[t.ID] = &stored
	return nil
}

func (r *MemoryTaskRepository) List(ctx context.Context, tenantID string, filter domain.StatusFilter) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStoreError("list", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Task, 0)
	for _, t := range r.tasks {
		if t.TenantID != tenantID || !filter.Matches(t) {
			continue
		}
		cp := *t
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (r *MemoryTaskRepository) Get(ctx context.Context, tenantID string, id int64) (*domain.Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, domain.WrapStoreError("get", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.owned(tenantID, id)
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, tenantID string, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	return r.mutate(ctx, "update", tenantID, id, func(t *domain.Task) {
		patch.Apply(t)
	})
}

func (r *MemoryTaskRepository) Complete(ctx context.Context, tenantID string, id int64) (*domain.Task, error) {
	return r.mutate(ctx, "complete", tenantID, id, func(t *domain.Task) {
		t.Completed = true
	})
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, tenantID string, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStoreError("delete", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(tenantID, id)
	if !ok {
		return nil, &domain.TaskNotFoundError{TaskID: id, TenantID: tenantID}
	}
	delete(r.tasks, id)
	return t, nil
}

func (r *MemoryTaskRepository) mutate(ctx context.Context, op, tenantID string, id int64, fn func(*domain.Task)) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStoreError(op, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.owned(tenantID, id)
	if !ok {
		return nil, &domain.TaskNotFoundError{TaskID: id, TenantID: tenantID}
	}
	fn(t)
	t.UpdatedAt = r.now()
	cp := *t
	return &cp, nil
}

// owned must be called with r.mu held.
func (r *MemoryTaskRepository) owned(tenantID string, id int64) (*domain.Task, bool) {
	t, ok := r.tasks[id]
	if !ok || t.TenantID != tenantID {
		return nil, false
	}
	return t, true
}
