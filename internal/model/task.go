package model

import "time"

type TaskType string

const (
	TaskRecurring TaskType = "recurring"
	TaskOneTime   TaskType = "one-time"
)

// Task is a reminder owned by the household. A one-time task has a concrete
// DueDate and no meaningful Frequency; a recurring task has a frequency label
// and a nil DueDate.
type Task struct {
	ID          int64      `json:"id"`
	HouseholdID int64      `json:"household_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Type        TaskType   `json:"type"`
	Frequency   *string    `json:"frequency"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
