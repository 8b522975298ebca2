package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/outmind-app/outmind/internal/frequency"
	"github.com/outmind-app/outmind/internal/model"
	"github.com/outmind-app/outmind/internal/taskform"
)

// TaskFormHandler serves the option lists the task form's pickers show and
// applies the type-toggle field resets server side, so clients do not each
// reimplement the policy.
type TaskFormHandler struct{}

func NewTaskFormHandler() *TaskFormHandler {
	return &TaskFormHandler{}
}

type frequencyOption struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (h *TaskFormHandler) Options(w http.ResponseWriter, r *http.Request) {
	labels := frequency.Labels()
	freqs := make([]frequencyOption, 0, len(labels))
	for _, l := range labels {
		freqs = append(freqs, frequencyOption{Label: l, Description: frequency.Describe(l)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dates":       taskform.DateOptions(time.Now(), taskform.DefaultDateOptionCount),
		"times":       taskform.TimeOptions(),
		"frequencies": freqs,
	})
}

func (h *TaskFormHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Form    taskform.Form  `json:"form"`
		NewType model.TaskType `json:"new_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	switch req.NewType {
	case model.TaskRecurring, model.TaskOneTime:
	default:
		writeError(w, http.StatusBadRequest, "new_type must be recurring or one-time")
		return
	}
	writeJSON(w, http.StatusOK, taskform.ToggleType(req.Form, req.NewType, time.Now()))
}
