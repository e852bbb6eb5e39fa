package repository

import (
	"context"
	"errors"
	"testing"

	"todo_backend/internal/domain"
)

// taskStore is the surface shared by the PostgreSQL and in-memory repositories.
type taskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, tenantID string, filter domain.StatusFilter) ([]*domain.Task, error)
	Get(ctx context.Context, tenantID string, id int64) (*domain.Task, bool, error)
	Update(ctx context.Context, tenantID string, id int64, patch domain.TaskPatch) (*domain.Task, error)
	Complete(ctx context.Context, tenantID string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, tenantID string, id int64) (*domain.Task, error)
}

var (
	_ taskStore = (*TaskRepository)(nil)
	_ taskStore = (*MemoryTaskRepository)(nil)
)

func mustCreate(t *testing.T, s taskStore, tenant, title string) *domain.Task {
	t.Helper()
	task := &domain.Task{TenantID: tenant, Title: title}
	if err := s.Create(context.Background(), task); err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return task
}

func expectNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	var nf *domain.TaskNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected TaskNotFoundError, got %v", err)
	}
	if nf.TaskID != id {
		t.Fatalf("not found task id = %d; want %d", nf.TaskID, id)
	}
}

// runStoreContract exercises the behaviour every task store must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) taskStore) {
	ctx := context.Background()

	t.Run("create assigns increasing ids across tenants", func(t *testing.T) {
		s := newStore(t)
		a := mustCreate(t, s, "alice", "first")
		b := mustCreate(t, s, "bob", "second")
		c := mustCreate(t, s, "alice", "third")
		if !(a.ID < b.ID && b.ID < c.ID) {
			t.Fatalf("ids not increasing: %d %d %d", a.ID, b.ID, c.ID)
		}
		if a.Completed || a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
			t.Fatalf("unexpected defaults: %+v", a)
		}
	})

	t.Run("list is tenant scoped and newest first", func(t *testing.T) {
		s := newStore(t)
		t1 := mustCreate(t, s, "alice", "Buy groceries")
		t2 := mustCreate(t, s, "alice", "Call dentist")
		mustCreate(t, s, "bob", "Bob's task")

		tasks, err := s.List(ctx, "alice", domain.StatusAll)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != t2.ID || tasks[1].ID != t1.ID {
			t.Fatalf("unexpected list: %+v", tasks)
		}

		empty, err := s.List(ctx, "carol", domain.StatusAll)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", empty)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		s := newStore(t)
		t1 := mustCreate(t, s, "alice", "one")
		t2 := mustCreate(t, s, "alice", "two")
		if _, err := s.Complete(ctx, "alice", t2.ID); err != nil {
			t.Fatalf("complete: %v", err)
		}

		pending, _ := s.List(ctx, "alice", domain.StatusPending)
		done, _ := s.List(ctx, "alice", domain.StatusCompleted)
		if len(pending) != 1 || pending[0].ID != t1.ID {
			t.Fatalf("pending = %+v", pending)
		}
		if len(done) != 1 || done[0].ID != t2.ID || !done[0].Completed {
			t.Fatalf("completed = %+v", done)
		}
	})

	t.Run("foreign tenant cannot see or touch a task", func(t *testing.T) {
		s := newStore(t)
		task := mustCreate(t, s, "alice", "private")
		title := "hijacked"

		if _, found, err := s.Get(ctx, "bob", task.ID); err != nil || found {
			t.Fatalf("bob get: found=%v err=%v", found, err)
		}
		_, err := s.Update(ctx, "bob", task.ID, domain.TaskPatch{Title: &title})
		expectNotFound(t, err, task.ID)
		_, err = s.Complete(ctx, "bob", task.ID)
		expectNotFound(t, err, task.ID)
		_, err = s.Delete(ctx, "bob", task.ID)
		expectNotFound(t, err, task.ID)

		got, found, err := s.Get(ctx, "alice", task.ID)
		if err != nil || !found {
			t.Fatalf("alice get: found=%v err=%v", found, err)
		}
		if got.Title != "private" || got.Completed {
			t.Fatalf("alice's task changed: %+v", got)
		}
	})

	t.Run("update applies only present fields", func(t *testing.T) {
		s := newStore(t)
		task := &domain.Task{TenantID: "alice", Title: "title", Description: "keep me"}
		if err := s.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
		title := "renamed"
		got, err := s.Update(ctx, "alice", task.ID, domain.TaskPatch{Title: &title})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.Title != "renamed" || got.Description != "keep me" {
			t.Fatalf("unexpected update result: %+v", got)
		}
		if got.UpdatedAt.Before(task.UpdatedAt) || !got.CreatedAt.Equal(task.CreatedAt) {
			t.Fatalf("timestamps wrong: before=%+v after=%+v", task, got)
		}
	})

	t.Run("complete is idempotent", func(t *testing.T) {
		s := newStore(t)
		task := mustCreate(t, s, "alice", "twice")
		for i := 0; i < 2; i++ {
			got, err := s.Complete(ctx, "alice", task.ID)
			if err != nil {
				t.Fatalf("complete #%d: %v", i+1, err)
			}
			if !got.Completed {
				t.Fatalf("complete #%d left completed=false", i+1)
			}
		}
	})

	t.Run("delete is not idempotent", func(t *testing.T) {
		s := newStore(t)
		task := mustCreate(t, s, "alice", "once")
		got, err := s.Delete(ctx, "alice", task.ID)
		if err != nil {
			t.Fatalf("first delete: %v", err)
		}
		if got.Title != "once" {
			t.Fatalf("delete should return the removed task, got %+v", got)
		}
		_, err = s.Delete(ctx, "alice", task.ID)
		expectNotFound(t, err, task.ID)

		if _, found, _ := s.Get(ctx, "alice", task.ID); found {
			t.Fatalf("task still visible after delete")
		}
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		s := newStore(t)
		first := mustCreate(t, s, "alice", "first")
		if _, err := s.Delete(ctx, "alice", first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		second := mustCreate(t, s, "alice", "second")
		if second.ID <= first.ID {
			t.Fatalf("id reused: first=%d second=%d", first.ID, second.ID)
		}
	})
}
