package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/atinyakov/TaskKeeper/internal/models"
)

// taskColumns is the column list every task query returns.
const taskColumns = `id, title, description, is_completed, user_id, created_at, updated_at`

// PostgresTaskRepository implements task persistence against a PostgreSQL
// database. Every query is additionally scoped by user_id so that a logic
// error upstream cannot cross tenant boundaries at the query layer.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

func scanTask(row *sql.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

// Create inserts a new task owned by userID and returns the stored row.
func (r *PostgresTaskRepository) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING `+taskColumns+`
	`, title, description, userID)
	return scanTask(row)
}

// ListByUser fetches the user's tasks ordered newest-first, applying the
// given limit and offset.
//
//	ctx:    context for cancellation and deadlines
//	userID: identifier of the owning user
//
// Returns a slice of models.Task or an error if the query or scanning fails.
func (r *PostgresTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CountByUser returns the total number of tasks the user owns,
// independent of pagination.
func (r *PostgresTaskRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, nil
}

// GetByID fetches a single task by id, scoped to the owning user.
// Returns ErrNotFound when the task is absent or owned by someone else.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	return scanTask(row)
}

// Update applies a partial update to the task: nil fields keep their
// stored values. The updated_at timestamp is stamped on every call.
func (r *PostgresTaskRepository) Update(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, taskID, userID, upd.Title, upd.Description)
	return scanTask(row)
}

// Delete removes the task, scoped to the owning user. Returns ErrNotFound
// when nothing was deleted.
func (r *PostgresTaskRepository) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleComplete flips the task's completion flag unconditionally and
// stamps updated_at. Returns ErrNotFound for an absent or foreign task.
func (r *PostgresTaskRepository) ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE tasks
		SET is_completed = NOT is_completed,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, taskID, userID)
	return scanTask(row)
}
