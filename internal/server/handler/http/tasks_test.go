package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/middleware"
	"github.com/atinyakov/TaskKeeper/internal/models"
	"github.com/atinyakov/TaskKeeper/internal/ratelimit"
)

// fakeTaskService implements TaskService with injectable behavior.
type fakeTaskService struct {
	CreateFunc func(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error)
	ListFunc   func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error)
	GetFunc    func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	UpdateFunc func(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error)
	DeleteFunc func(ctx context.Context, userID, taskID uuid.UUID) error
	ToggleFunc func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
}

func (f *fakeTaskService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error) {
	return f.CreateFunc(ctx, userID, title, description)
}
func (f *fakeTaskService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error) {
	return f.ListFunc(ctx, userID, limit, offset)
}
func (f *fakeTaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return f.GetFunc(ctx, userID, taskID)
}
func (f *fakeTaskService) Update(ctx context.Context, userID, taskID uuid.UUID, upd models.TaskUpdate) (*models.Task, error) {
	return f.UpdateFunc(ctx, userID, taskID, upd)
}
func (f *fakeTaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	return f.DeleteFunc(ctx, userID, taskID)
}
func (f *fakeTaskService) ToggleComplete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return f.ToggleFunc(ctx, userID, taskID)
}

// fixedAuthenticator resolves any non-empty token to one user.
type fixedAuthenticator struct {
	user *models.User
}

func (f *fixedAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" || f.user == nil {
		return nil, apperr.Unauthorized("")
	}
	return f.user, nil
}

func newTestRouter(user *models.User, svc TaskService) http.Handler {
	log := zap.NewNop()
	authHandler := &AuthHandler{AuthService: &fakeAuthService{}, Log: log}
	taskHandler := &TaskHandler{TaskService: svc, Log: log}
	limiter := ratelimit.New(1000, time.Minute)
	return NewRouter(authHandler, taskHandler, &fixedAuthenticator{user: user}, limiter, log, "http://localhost:3000")
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if withSession {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "valid-token"})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTaskRoutes_RequireSession(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	router := newTestRouter(user, &fakeTaskService{})

	rec := doJSON(t, router, "GET", "/api/users/"+user.ID.String()+"/tasks", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session cookie, got %d", rec.Code)
	}
	if code := decodeEnvelope(t, rec.Body); code != apperr.CodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED envelope, got %q", code)
	}
}

func TestTaskRoutes_PathOwnerMismatch(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	svc := &fakeTaskService{
		GetFunc: func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
			t.Fatalf("service must not be reached on ownership mismatch")
			return nil, nil
		},
	}
	router := newTestRouter(user, svc)

	otherUser := uuid.New()
	rec := doJSON(t, router, "GET", "/api/users/"+otherUser.String()+"/tasks/"+uuid.New().String(), "", true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign user path, got %d", rec.Code)
	}
	if code := decodeEnvelope(t, rec.Body); code != apperr.CodeForbidden {
		t.Errorf("expected FORBIDDEN envelope, got %q", code)
	}
}

func TestTaskRoutes_ForeignTaskIsNotFound(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	svc := &fakeTaskService{
		GetFunc: func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
			// The scoped query hides tasks owned by other users.
			return nil, apperr.NotFound("Task not found")
		},
	}
	router := newTestRouter(user, svc)

	// The path user id matches the caller, so this is a 404, not a 403.
	rec := doJSON(t, router, "GET", "/api/users/"+user.ID.String()+"/tasks/"+uuid.New().String(), "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign task under own path, got %d", rec.Code)
	}
	if code := decodeEnvelope(t, rec.Body); code != apperr.CodeNotFound {
		t.Errorf("expected NOT_FOUND envelope, got %q", code)
	}
}

func TestTaskRoutes_Create(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	taskID := uuid.New()
	svc := &fakeTaskService{
		CreateFunc: func(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Task, error) {
			if userID != user.ID {
				t.Errorf("expected owner %s, got %s", user.ID, userID)
			}
			return &models.Task{ID: taskID, Title: title, UserID: userID}, nil
		},
	}
	router := newTestRouter(user, svc)

	rec := doJSON(t, router, "POST", "/api/users/"+user.ID.String()+"/tasks", `{"title":"x"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task models.Task
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if task.ID != taskID {
		t.Errorf("expected task id %s, got %s", taskID, task.ID)
	}
	if task.Title != "x" {
		t.Errorf("expected title x, got %q", task.Title)
	}
}

func TestTaskRoutes_CreateValidation(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	router := newTestRouter(user, &fakeTaskService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{}`},
		{"empty title", `{"title":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/api/users/"+user.ID.String()+"/tasks", tt.body, true)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
		})
	}
}

func TestTaskRoutes_ListParams(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	var gotLimit, gotOffset int
	svc := &fakeTaskService{
		ListFunc: func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []models.Task{}, 0, nil
		},
	}
	router := newTestRouter(user, svc)
	base := "/api/users/" + user.ID.String() + "/tasks"

	tests := []struct {
		name         string
		query        string
		expectedCode int
		limit        int
		offset       int
	}{
		{"defaults", "", http.StatusOK, 50, 0},
		{"explicit page", "?limit=10&offset=20", http.StatusOK, 10, 20},
		{"limit at upper bound", "?limit=100", http.StatusOK, 100, 0},
		{"limit too small", "?limit=0", http.StatusUnprocessableEntity, 0, 0},
		{"limit too large", "?limit=101", http.StatusUnprocessableEntity, 0, 0},
		{"negative offset", "?offset=-1", http.StatusUnprocessableEntity, 0, 0},
		{"non-numeric limit", "?limit=ten", http.StatusUnprocessableEntity, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "GET", base+tt.query, "", true)
			if rec.Code != tt.expectedCode {
				t.Fatalf("expected %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedCode == http.StatusOK {
				if gotLimit != tt.limit || gotOffset != tt.offset {
					t.Errorf("expected limit=%d offset=%d, got limit=%d offset=%d",
						tt.limit, tt.offset, gotLimit, gotOffset)
				}
			}
		})
	}
}

func TestTaskRoutes_ListResponseShape(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	svc := &fakeTaskService{
		ListFunc: func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Task, int64, error) {
			return []models.Task{{ID: uuid.New(), Title: "a", UserID: userID}}, 12, nil
		},
	}
	router := newTestRouter(user, svc)

	rec := doJSON(t, router, "GET", "/api/users/"+user.ID.String()+"/tasks", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload taskListResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(payload.Tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(payload.Tasks))
	}
	if payload.Total != 12 {
		t.Errorf("expected total independent of page size, got %d", payload.Total)
	}
}

func TestTaskRoutes_Delete(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	svc := &fakeTaskService{
		DeleteFunc: func(ctx context.Context, userID, taskID uuid.UUID) error {
			return nil
		},
	}
	router := newTestRouter(user, svc)

	rec := doJSON(t, router, "DELETE", "/api/users/"+user.ID.String()+"/tasks/"+uuid.New().String(), "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestTaskRoutes_Toggle(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	completed := false
	svc := &fakeTaskService{
		ToggleFunc: func(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
			completed = !completed
			return &models.Task{ID: taskID, UserID: userID, IsCompleted: completed}, nil
		},
	}
	router := newTestRouter(user, svc)
	path := "/api/users/" + user.ID.String() + "/tasks/" + uuid.New().String() + "/complete"

	for _, want := range []bool{true, false} {
		rec := doJSON(t, router, "PATCH", path, "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var task models.Task
		if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
			t.Fatalf("failed to decode task: %v", err)
		}
		if task.IsCompleted != want {
			t.Errorf("expected is_completed=%v, got %v", want, task.IsCompleted)
		}
	}
}

func TestTaskRoutes_InvalidTaskID(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.com"}
	router := newTestRouter(user, &fakeTaskService{})

	rec := doJSON(t, router, "GET", "/api/users/"+user.ID.String()+"/tasks/not-a-uuid", "", true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed task id, got %d", rec.Code)
	}
}
