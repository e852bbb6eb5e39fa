package repository

import (
	"context"
	"errors"

	"todo_backend/internal/db"
	"todo_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, tenant_id, title, description, completed, created_at, updated_at`

// TaskRepository stores tasks in PostgreSQL. Every statement is scoped by tenant_id.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Ping checks the pool can reach the database.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO tasks (tenant_id, title, description, completed)
			VALUES ($1, $2, $3, FALSE)
			RETURNING id, completed, created_at, updated_at
		`, t.TenantID, t.Title, t.Description).Scan(&t.ID, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	})
	return domain.WrapStoreError("create", err)
}

func (r *TaskRepository) List(ctx context.Context, tenantID string, filter domain.StatusFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE tenant_id = $1`
	args := []any{tenantID}
	switch filter {
	case domain.StatusPending:
		query += ` AND completed = $2`
		args = append(args, false)
	case domain.StatusCompleted:
		query += ` AND completed = $2`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	res := make([]*domain.Task, 0)
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			res = append(res, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, domain.WrapStoreError("list", err)
	}
	return res, nil
}

// Get returns found=false when the task does not exist for this tenant.
func (r *TaskRepository) Get(ctx context.Context, tenantID string, id int64) (*domain.Task, bool, error) {
	var task *domain.Task
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND tenant_id = $2`, id, tenantID))
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domain.WrapStoreError("get", err)
	}
	return task, true, nil
}

func (r *TaskRepository) Update(ctx context.Context, tenantID string, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	var task *domain.Task
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		patch.Apply(t)
		if err := tx.QueryRow(ctx, `
			UPDATE tasks SET title = $1, description = $2, updated_at = now()
			WHERE id = $3 AND tenant_id = $4
			RETURNING updated_at
		`, t.Title, t.Description, id, tenantID).Scan(&t.UpdatedAt); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, domain.WrapStoreError("update", err)
	}
	return task, nil
}

// Complete sets completed=true whatever the current state.
func (r *TaskRepository) Complete(ctx context.Context, tenantID string, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
			UPDATE tasks SET completed = TRUE, updated_at = now()
			WHERE id = $1 AND tenant_id = $2
			RETURNING completed, updated_at
		`, id, tenantID).Scan(&t.Completed, &t.UpdatedAt); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, domain.WrapStoreError("complete", err)
	}
	return task, nil
}

// Delete removes the row and returns it as it was before deletion.
func (r *TaskRepository) Delete(ctx context.Context, tenantID string, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND tenant_id = $2`, id, tenantID); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, domain.WrapStoreError("delete", err)
	}
	return task, nil
}

// lockTask loads the row FOR UPDATE or returns TaskNotFoundError.
func lockTask(ctx context.Context, tx pgx.Tx, tenantID string, id int64) (*domain.Task, error) {
	t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.TaskNotFoundError{TaskID: id, TenantID: tenantID}
	}
	return t, err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.TenantID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
