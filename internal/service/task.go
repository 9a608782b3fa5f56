package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/models"
	"github.com/atinyakov/TaskKeeper/internal/repository"
)

// TaskRepository defines the persistence operations needed by the TaskService.
// Every method is scoped by the owning user's id.
type TaskRepository interface {
	// Create inserts a new task owned by userID.
	Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error)
	// ListByUser fetches the user's tasks newest-first with pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, error)
	// CountByUser returns the user's total task count.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// GetByID fetches one task, or repository.ErrNotFound when absent
	// or owned by another user.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	// Update applies a partial update; nil fields are no-ops.
	Update(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error)
	// Delete removes the task, or repository.ErrNotFound.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	// ToggleComplete flips the completion flag unconditionally.
	ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
}

// TaskService implements task CRUD business logic for the authenticated
// owner. Callers must have passed the authorization guard before invoking
// any method; the repository scoping by user id is a second line of
// defense at the query layer.
type TaskService struct {
	repo TaskRepository
}

// NewTaskService constructs a TaskService with the provided TaskRepository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// Create stores a new task for userID. The title is trimmed before storage.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error) {
	task, err := s.repo.Create(ctx, userID, strings.TrimSpace(title), description)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns one page of the user's tasks, newest first, together with
// the total count independent of pagination.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	tasks, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// Get fetches a single task owned by userID.
func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, taskError(err, "get task")
	}
	return task, nil
}

// Update applies a partial update: nil fields keep their stored values;
// a supplied title is trimmed.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error) {
	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		upd.Title = &trimmed
	}

	task, err := s.repo.Update(ctx, userID, taskID, upd)
	if err != nil {
		return nil, taskError(err, "update task")
	}
	return task, nil
}

// Delete removes the task owned by userID.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		return taskError(err, "delete task")
	}
	return nil
}

// ToggleComplete flips the task's completion flag. Applying it twice
// returns the task to its original state.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.ToggleComplete(ctx, userID, taskID)
	if err != nil {
		return nil, taskError(err, "toggle task")
	}
	return task, nil
}

// taskError maps a scoped-query miss to the not-found failure kind and
// wraps everything else.
func taskError(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Task not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}
