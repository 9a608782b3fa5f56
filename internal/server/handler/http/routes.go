package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/middleware"
	"github.com/atinyakov/TaskKeeper/internal/ratelimit"
)

// NewRouter constructs and returns an HTTP handler that serves the API.
//
// Parameters:
//
//	authHandler  - handler for signup, signin, and signout endpoints
//	taskHandler  - handler for the task CRUD endpoints
//	auth         - authenticator backing the session middleware
//	limiter      - sliding-window limiter guarding the auth endpoints
//	logger       - structured logger for request logging middleware
//	frontendURL  - origin allowed by CORS (credentials enabled)
//
// Routes:
//
//	GET    /health                                      → liveness probe
//	POST   /api/auth/signup                             → authHandler.Signup (rate limited)
//	POST   /api/auth/signin                             → authHandler.Signin (rate limited)
//	POST   /api/auth/signout                            → authHandler.Signout (session required)
//	POST   /api/users/{userID}/tasks                    → taskHandler.Create
//	GET    /api/users/{userID}/tasks                    → taskHandler.List
//	GET    /api/users/{userID}/tasks/{taskID}           → taskHandler.Get
//	PUT    /api/users/{userID}/tasks/{taskID}           → taskHandler.Update
//	DELETE /api/users/{userID}/tasks/{taskID}           → taskHandler.Delete
//	PATCH  /api/users/{userID}/tasks/{taskID}/complete  → taskHandler.ToggleComplete
//
// All /api/users routes require a valid session cookie.
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	auth middleware.Authenticator,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", handleHealth)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints, guarded by the sliding-window limiter
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(limiter))
				r.Post("/signup", authHandler.Signup)
				r.Post("/signin", authHandler.Signin)
			})

			// Signout requires an existing valid session
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(auth, logger))
				r.Post("/signout", authHandler.Signout)
			})
		})

		// Protected group: requires a valid session cookie
		r.Route("/users/{userID}/tasks", func(r chi.Router) {
			r.Use(middleware.Auth(auth, logger))
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/{taskID}", taskHandler.Get)
			r.Put("/{taskID}", taskHandler.Update)
			r.Delete("/{taskID}", taskHandler.Delete)
			r.Patch("/{taskID}/complete", taskHandler.ToggleComplete)
		})
	})

	return r
}

// handleHealth is the health check endpoint handler.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
