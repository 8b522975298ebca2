package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/frequency"
	"github.com/outmind-app/outmind/internal/model"
	"github.com/outmind-app/outmind/internal/realtime"
	"github.com/outmind-app/outmind/internal/store"
	"github.com/outmind-app/outmind/internal/taskform"
)

type TaskHandler struct {
	tasks       *store.TaskStore
	profiles    *store.ProfileStore
	assignments *store.AssignmentStore
	hub         *realtime.Hub
	logger      *slog.Logger
}

func NewTaskHandler(tasks *store.TaskStore, profiles *store.ProfileStore, assignments *store.AssignmentStore, hub *realtime.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, profiles: profiles, assignments: assignments, hub: hub, logger: logger}
}

type taskRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Type        string     `json:"type"`
	Frequency   *string    `json:"frequency"`
	DueDate     *time.Time `json:"due_date"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	ProfileIDs  []int64    `json:"profile_ids"`
}

// validate enforces the type invariants at the form boundary: a one-time
// task needs a due date and carries no frequency; a recurring task needs a
// frequency from the fixed vocabulary and carries no due date. The due date
// may arrive either as a timestamp or as the picker's DD-MM-YYYY date and
// HH:MM time strings.
func (req *taskRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fault.Invalid("name", "is required")
	}

	switch model.TaskType(req.Type) {
	case model.TaskOneTime:
		if req.DueDate == nil && req.Date != "" {
			if req.Time == "" {
				req.Time = taskform.DefaultTime
			}
			due, err := taskform.ParseDateTime(req.Date, req.Time, time.Local)
			if err != nil {
				return fault.Invalid("date", "must be DD-MM-YYYY with an HH:MM time")
			}
			req.DueDate = &due
		}
		if req.DueDate == nil {
			return fault.Invalid("due_date", "is required for one-time tasks")
		}
		req.Frequency = nil
	case model.TaskRecurring:
		if req.Frequency == nil {
			return fault.Invalid("frequency", "is required for recurring tasks")
		}
		f, err := frequency.Parse(*req.Frequency)
		if err != nil {
			return fault.Invalid("frequency", err.Error())
		}
		normalized := f.String()
		req.Frequency = &normalized
		req.DueDate = nil
	default:
		return fault.Invalid("type", "must be recurring or one-time")
	}
	return nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, err)
		return
	}

	task, err := h.tasks.Create(req.Name, req.Description, model.TaskType(req.Type), req.Frequency, req.DueDate)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeFailure(w, err)
		return
	}

	// Assignment inserts happen after the task row exists; a failure here
	// leaves the task behind and is reported as a partial failure rather
	// than rolled back.
	for _, profileID := range req.ProfileIDs {
		if _, err := h.assignments.Assign(task.ID, profileID); err != nil {
			h.logger.Error("assign task", "task_id", task.ID, "profile_id", profileID, "error", err)
			writeFailure(w, &fault.PartialFailure{
				Completed: "task create",
				Failed:    "assignment insert",
				Err:       err,
			})
			return
		}
	}

	h.hub.Notify("task", "created", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if task == nil {
		writeFailure(w, fmt.Errorf("task %d: %w", id, fault.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List()
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeFailure(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("task %d: %w", id, fault.ErrNotFound))
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, err)
		return
	}

	task, err := h.tasks.Update(id, req.Name, req.Description, model.TaskType(req.Type), req.Frequency, req.DueDate)
	if err != nil {
		h.logger.Error("update task", "id", id, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("task", "updated", task.ID)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		h.logger.Error("get task", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("task %d: %w", id, fault.ErrNotFound))
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		h.logger.Error("delete task", "id", id, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("task", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Assign attaches a task to an additional profile.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := h.tasks.GetByID(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if task == nil {
		writeFailure(w, fmt.Errorf("task %d: %w", id, fault.ErrNotFound))
		return
	}

	var req struct {
		ProfileID int64 `json:"profile_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	profile, err := h.profiles.GetByID(req.ProfileID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if profile == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", req.ProfileID, fault.ErrNotFound))
		return
	}

	assignment, err := h.assignments.Assign(id, req.ProfileID)
	if err != nil {
		h.logger.Error("assign task", "task_id", id, "profile_id", req.ProfileID, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("assignment", "created", assignment.ID)
	writeJSON(w, http.StatusCreated, assignment)
}

// Reassign moves an assignment to a different profile in place.
func (h *TaskHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		ProfileID int64 `json:"profile_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	assignment, err := h.assignments.GetByID(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if assignment == nil {
		writeFailure(w, fmt.Errorf("assignment %d: %w", id, fault.ErrNotFound))
		return
	}

	profile, err := h.profiles.GetByID(req.ProfileID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if profile == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", req.ProfileID, fault.ErrNotFound))
		return
	}

	if err := h.assignments.Reassign(id, req.ProfileID); err != nil {
		h.logger.Error("reassign", "assignment_id", id, "profile_id", req.ProfileID, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("assignment", "updated", id)
	updated, err := h.assignments.GetByID(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateStatus sets an assignment's status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !model.ValidStatus(model.AssignmentStatus(req.Status)) {
		writeError(w, http.StatusBadRequest, "status must be pending, in_progress, or completed")
		return
	}

	assignment, err := h.assignments.GetByID(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if assignment == nil {
		writeFailure(w, fmt.Errorf("assignment %d: %w", id, fault.ErrNotFound))
		return
	}

	if err := h.assignments.UpdateStatus(id, model.AssignmentStatus(req.Status)); err != nil {
		h.logger.Error("update status", "assignment_id", id, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("assignment", "updated", id)
	w.WriteHeader(http.StatusNoContent)
}
