package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/middleware"
	"github.com/atinyakov/TaskKeeper/internal/models"
	"github.com/atinyakov/TaskKeeper/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// TaskService defines the interface for task operations required by the
// HTTP handlers. Every method is scoped by the authenticated owner's id.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
}

// TaskHandler handles HTTP requests for task CRUD and completion toggling.
//
// Every handler runs after the auth middleware and performs the ownership
// check against the path's user id before touching the service: a
// mismatch yields 403 before any query, while a task that is absent or
// belongs to another user within the caller's own scope yields 404.
type TaskHandler struct {
	TaskService TaskService
	// Log is used for unhandled failures.
	Log *zap.Logger
}

// taskCreateRequest represents the JSON payload for task creation.
type taskCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// taskUpdateRequest represents the JSON payload for a partial task update.
// Absent fields are no-ops, not clears.
type taskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// taskListResponse is returned by the list endpoint. Total is the user's
// full task count, independent of pagination.
type taskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

// currentOwner resolves the authenticated user and enforces that the
// path's user id matches. Returns nil after writing the failure response.
func (h *TaskHandler) currentOwner(w http.ResponseWriter, r *http.Request) *models.User {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		apperr.Write(w, apperr.Unauthorized(""))
		return nil
	}

	pathUserID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		apperr.Write(w, apperr.Validation("Invalid user id", nil))
		return nil
	}

	if err := service.AuthorizeOwner(pathUserID, user); err != nil {
		fail(w, h.Log, err)
		return nil
	}
	return user
}

// taskID parses the task id path parameter. Returns uuid.Nil after
// writing the failure response.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil || id == uuid.Nil {
		apperr.Write(w, apperr.Validation("Invalid task id", nil))
		return uuid.Nil
	}
	return id
}

// Create handles POST /api/users/{userID}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}

	var req taskCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.TaskService.Create(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		fail(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// List handles GET /api/users/{userID}/tasks?limit&offset.
// limit defaults to 50 and must be within [1,100]; offset defaults to 0
// and must be non-negative. Out-of-range values yield 422.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}

	limit, offset, err := listParams(r)
	if err != nil {
		fail(w, h.Log, err)
		return
	}

	tasks, total, err := h.TaskService.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		fail(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, taskListResponse{Tasks: tasks, Total: total})
}

// Get handles GET /api/users/{userID}/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}
	taskID := h.taskID(w, r)
	if taskID == uuid.Nil {
		return
	}

	task, err := h.TaskService.Get(r.Context(), user.ID, taskID)
	if err != nil {
		fail(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/users/{userID}/tasks/{taskID} as a partial
// update: only supplied fields overwrite.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}
	taskID := h.taskID(w, r)
	if taskID == uuid.Nil {
		return
	}

	var req taskUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.TaskService.Update(r.Context(), user.ID, taskID, models.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		fail(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/users/{userID}/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}
	taskID := h.taskID(w, r)
	if taskID == uuid.Nil {
		return
	}

	if err := h.TaskService.Delete(r.Context(), user.ID, taskID); err != nil {
		fail(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleComplete handles PATCH /api/users/{userID}/tasks/{taskID}/complete,
// flipping the completion flag unconditionally.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	user := h.currentOwner(w, r)
	if user == nil {
		return
	}
	taskID := h.taskID(w, r)
	if taskID == uuid.Nil {
		return
	}

	task, err := h.TaskService.ToggleComplete(r.Context(), user.ID, taskID)
	if err != nil {
		fail(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func listParams(r *http.Request) (limit, offset int, err error) {
	limit, offset = defaultListLimit, 0
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			return 0, 0, apperr.Validation("limit must be an integer within [1,100]", nil)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperr.Validation("offset must be a non-negative integer", nil)
		}
	}
	return limit, offset, nil
}
