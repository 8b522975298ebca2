package occurrence

import (
	"fmt"
	"time"

	"github.com/outmind-app/outmind/internal/frequency"
	"github.com/outmind-app/outmind/internal/model"
	"github.com/outmind-app/outmind/internal/store"
)

// Gateway is the slice of the persistence layer the resolver needs.
type Gateway interface {
	QueryOneTimeInRange(start, end time.Time) ([]store.TaskWithAssignees, error)
	QueryRecurringMatching(labels []string) ([]store.TaskWithAssignees, error)
}

// Resolver computes the occurrences due on a calendar day.
type Resolver struct {
	gateway Gateway
	now     func() time.Time
}

func NewResolver(g Gateway) *Resolver {
	return &Resolver{gateway: g, now: time.Now}
}

// Resolve returns the occurrences due on the calendar day containing d,
// interpreted in d's location: one-time tasks whose due date falls within
// the day's bounds first, then recurring tasks matching "every day" or the
// day's weekday label. Ordering across the two groups is insertion order.
//
// If d's day is strictly before today, every occurrence is reported as
// completed. That is a display decoration only; stored statuses are not
// touched.
func (r *Resolver) Resolve(d time.Time) ([]Occurrence, error) {
	dayStart := startOfDay(d)
	dayEnd := endOfDay(d)

	oneTime, err := r.gateway.QueryOneTimeInRange(dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("one-time tasks for %s: %w", dayStart.Format("2006-01-02"), err)
	}

	recurring, err := r.gateway.QueryRecurringMatching(frequency.DayMatchLabels(dayStart))
	if err != nil {
		return nil, fmt.Errorf("recurring tasks for %s: %w", dayStart.Format("2006-01-02"), err)
	}

	pastDay := dayStart.Before(startOfDay(r.now().In(d.Location())))

	var occurrences []Occurrence
	for _, tw := range oneTime {
		occurrences = append(occurrences, buildOccurrence(tw, oneTimeDisplayTime(tw.Task, d.Location()), pastDay))
	}
	for _, tw := range recurring {
		// The label query prefilters; the parsed frequency decides. A row
		// whose stored label does not actually match the day is skipped.
		if tw.Task.Frequency == nil {
			continue
		}
		f, err := frequency.Parse(*tw.Task.Frequency)
		if err != nil || !f.MatchesDay(dayStart) {
			continue
		}
		occurrences = append(occurrences, buildOccurrence(tw, RecurringDisplayTime, pastDay))
	}
	return occurrences, nil
}

func buildOccurrence(tw store.TaskWithAssignees, displayTime string, pastDay bool) Occurrence {
	occ := Occurrence{
		TaskID:      tw.Task.ID,
		Title:       tw.Task.Name,
		Description: tw.Task.Description,
		Time:        displayTime,
		Type:        tw.Task.Type,
		Frequency:   tw.Task.Frequency,
	}

	if len(tw.Assignees) == 1 {
		a := tw.Assignees[0]
		occ.Assignee = SingleAssignee{ProfileName: a.ProfileName, AssignmentID: a.Assignment.ID}
		occ.Status = a.Assignment.Status
	} else {
		all := AllAssignees{ProfileNames: make([]string, 0, len(tw.Assignees))}
		for _, a := range tw.Assignees {
			all.ProfileNames = append(all.ProfileNames, a.ProfileName)
		}
		occ.Assignee = all
		occ.Status = aggregateStatus(tw.Assignees)
	}

	if pastDay {
		occ.Status = model.StatusCompleted
	}
	return occ
}

// aggregateStatus summarizes a multi-assignee task: completed only when
// everyone finished, in progress when anyone started.
func aggregateStatus(assignees []store.Assignee) model.AssignmentStatus {
	allCompleted := true
	anyStarted := false
	for _, a := range assignees {
		switch a.Assignment.Status {
		case model.StatusCompleted:
			anyStarted = true
		case model.StatusInProgress:
			allCompleted = false
			anyStarted = true
		default:
			allCompleted = false
		}
	}
	if allCompleted {
		return model.StatusCompleted
	}
	if anyStarted {
		return model.StatusInProgress
	}
	return model.StatusPending
}

func oneTimeDisplayTime(t model.Task, loc *time.Location) string {
	if t.DueDate == nil {
		return RecurringDisplayTime
	}
	return t.DueDate.In(loc).Format("15:04")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is built from wall-clock fields, not by adding a duration to the
// day's start. On DST transition days the day is not 24 hours long and a
// duration-based bound would land in the wrong calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
