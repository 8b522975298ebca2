package model

import "time"

type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
)

// ValidStatus reports whether s is one of the persisted status values.
func ValidStatus(s AssignmentStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Assignment links one Profile to one Task and carries its own status.
type Assignment struct {
	ID         int64            `json:"id"`
	ProfileID  int64            `json:"user_id"`
	TaskID     int64            `json:"task_id"`
	Status     AssignmentStatus `json:"status"`
	AssignedAt time.Time        `json:"assigned_at"`
}
