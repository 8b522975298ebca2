package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/outmind-app/outmind/internal/handler"
	"github.com/outmind-app/outmind/internal/middleware"
	"github.com/outmind-app/outmind/internal/occurrence"
	"github.com/outmind-app/outmind/internal/realtime"
	"github.com/outmind-app/outmind/internal/store"
)

type Server struct {
	db          *sql.DB
	hub         *realtime.Hub
	profileH    *handler.ProfileHandler
	taskH       *handler.TaskHandler
	calendarH   *handler.CalendarHandler
	taskFormH   *handler.TaskFormHandler
	households  *store.HouseholdStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := realtime.NewHub(logger.With("component", "realtime"))

	households := store.NewHouseholdStore(db)
	profiles := store.NewProfileStore(db, store.DefaultHouseholdID)
	tasks := store.NewTaskStore(db, store.DefaultHouseholdID)
	assignments := store.NewAssignmentStore(db)

	resolver := occurrence.NewResolver(tasks)

	return &Server{
		db:          db,
		hub:         hub,
		profileH:    handler.NewProfileHandler(profiles, assignments, hub, logger.With("component", "profile")),
		taskH:       handler.NewTaskHandler(tasks, profiles, assignments, hub, logger.With("component", "task")),
		calendarH:   handler.NewCalendarHandler(resolver, logger.With("component", "calendar")),
		taskFormH:   handler.NewTaskFormHandler(),
		households:  households,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the realtime hub.
func (s *Server) Hub() *realtime.Hub {
	return s.hub
}

// Households returns the household store, used at startup to apply the
// configured household name.
func (s *Server) Households() *store.HouseholdStore {
	return s.households
}

// RateLimiter returns the limiter so the caller can run periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /ws", realtime.Handler(s.hub, s.logger.With("component", "realtime")))

	mux.HandleFunc("GET /api/profiles", s.profileH.List)
	mux.HandleFunc("POST /api/profiles", s.profileH.Create)
	mux.HandleFunc("GET /api/profiles/{id}", s.profileH.Get)
	mux.HandleFunc("PUT /api/profiles/{id}", s.profileH.Update)
	mux.HandleFunc("DELETE /api/profiles/{id}", s.profileH.Delete)
	mux.HandleFunc("GET /api/profiles/{id}/tasks", s.profileH.Tasks)

	mux.HandleFunc("POST /api/profiles/{id}/pin", s.profileH.SetPIN)
	mux.HandleFunc("DELETE /api/profiles/{id}/pin", s.profileH.ClearPIN)
	mux.HandleFunc("POST /api/profiles/{id}/pin/verify", s.rateLimitedHandler(s.profileH.VerifyPIN))

	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/assign", s.taskH.Assign)
	mux.HandleFunc("POST /api/tasks/assignments/{id}/reassign", s.taskH.Reassign)
	mux.HandleFunc("PUT /api/tasks/assignments/{id}/status", s.taskH.UpdateStatus)

	mux.HandleFunc("GET /api/calendar/day", s.calendarH.Day)

	mux.HandleFunc("GET /api/taskform/options", s.taskFormH.Options)
	mux.HandleFunc("POST /api/taskform/toggle", s.taskFormH.Toggle)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// rateLimitedHandler throttles by client IP. PIN verification is the only
// brute-forceable endpoint.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
