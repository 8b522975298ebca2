// Package occurrence decides, for an arbitrary calendar day, which tasks
// are due and to whom they are attributed.
package occurrence

import "github.com/outmind-app/outmind/internal/model"

// AllAssigneesLabel is the aggregate display label used when a task is
// assigned to more than one profile.
const AllAssigneesLabel = "Todos"

// RecurringDisplayTime is the placeholder time shown for recurring tasks,
// which carry no timestamp of their own.
const RecurringDisplayTime = "09:00"

// Assignee is the display-level assignee grouping of an occurrence: either
// one concrete assignment or the whole household.
type Assignee interface {
	// Label is the name shown next to the task.
	Label() string
	assignee()
}

// SingleAssignee attributes the occurrence to one profile. AssignmentID
// enables navigation to the assignment's detail.
type SingleAssignee struct {
	ProfileName  string
	AssignmentID int64
}

func (s SingleAssignee) Label() string { return s.ProfileName }
func (SingleAssignee) assignee()       {}

// AllAssignees attributes the occurrence to every assigned profile at once.
// There is no singular assignment to navigate to.
type AllAssignees struct {
	ProfileNames []string
}

func (AllAssignees) Label() string { return AllAssigneesLabel }
func (AllAssignees) assignee()     {}

// Occurrence is one task being due on one specific calendar day. It is
// computed fresh per query and never persisted.
type Occurrence struct {
	TaskID      int64
	Title       string
	Description *string
	Time        string // HH:MM, 24-hour
	Assignee    Assignee
	Status      model.AssignmentStatus
	Type        model.TaskType
	Frequency   *string
}
