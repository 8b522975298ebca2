package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/outmind-app/outmind/internal/occurrence"
)

type CalendarHandler struct {
	resolver *occurrence.Resolver
	logger   *slog.Logger
}

func NewCalendarHandler(resolver *occurrence.Resolver, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{resolver: resolver, logger: logger}
}

// occurrenceResponse flattens the assignee variants into one JSON shape:
// a single assignment carries assignment_id and profile_label is the name;
// a multi-assignee occurrence carries profile_names and the aggregate label.
type occurrenceResponse struct {
	TaskID       int64    `json:"task_id"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Time         string   `json:"time"`
	ProfileLabel string   `json:"profile_label"`
	AssignmentID *int64   `json:"assignment_id,omitempty"`
	ProfileNames []string `json:"profile_names,omitempty"`
	Status       string   `json:"status"`
	Type         string   `json:"type"`
	Frequency    *string  `json:"frequency,omitempty"`
}

// Day serves the occurrences for one calendar day. The date query parameter
// is YYYY-MM-DD and defaults to today in the server's zone.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	occurrences, err := h.resolver.Resolve(day)
	if err != nil {
		h.logger.Error("resolve day", "date", day.Format("2006-01-02"), "error", err)
		writeFailure(w, err)
		return
	}

	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		resp := occurrenceResponse{
			TaskID:       occ.TaskID,
			Title:        occ.Title,
			Description:  occ.Description,
			Time:         occ.Time,
			ProfileLabel: occ.Assignee.Label(),
			Status:       string(occ.Status),
			Type:         string(occ.Type),
			Frequency:    occ.Frequency,
		}
		switch a := occ.Assignee.(type) {
		case occurrence.SingleAssignee:
			id := a.AssignmentID
			resp.AssignmentID = &id
		case occurrence.AllAssignees:
			resp.ProfileNames = a.ProfileNames
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}
