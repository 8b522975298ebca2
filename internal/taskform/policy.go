// Package taskform holds the create/edit form policy: the candidate
// date/time option lists the pickers show, and the field resets applied
// when a task's type is toggled between recurring and one-time.
package taskform

import (
	"fmt"
	"time"

	"github.com/outmind-app/outmind/internal/frequency"
	"github.com/outmind-app/outmind/internal/model"
)

const (
	// DefaultTime seeds the time picker when a task becomes one-time.
	DefaultTime = "18:00"

	// DateLayout is the picker's date format (DD-MM-YYYY).
	DateLayout = "02-01-2006"

	// DefaultDateOptionCount is how many days ahead the picker offers.
	DefaultDateOptionCount = 45
)

// Form is the subset of the task form affected by the type toggle.
type Form struct {
	Type      model.TaskType `json:"type"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Frequency string         `json:"frequency"`
}

// ToggleType switches the form to newType and resets the fields that do not
// apply to it, so stale values from the other mode are never persisted.
// Switching to one-time seeds the earliest selectable future date at 18:00;
// switching to recurring resets the frequency to "every day".
func ToggleType(f Form, newType model.TaskType, now time.Time) Form {
	if f.Type == newType {
		return f
	}

	f.Type = newType
	switch newType {
	case model.TaskOneTime:
		f.Date = now.AddDate(0, 0, 1).Format(DateLayout)
		f.Time = DefaultTime
		f.Frequency = ""
	case model.TaskRecurring:
		f.Date = ""
		f.Time = ""
		f.Frequency = frequency.EveryDay
	}
	return f
}

// DateOptions returns n candidate dates starting today, formatted for the
// picker.
func DateOptions(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// TimeOptions returns the half-hour time grid from 06:00 through 22:30.
func TimeOptions() []string {
	var times []string
	for h := 6; h <= 22; h++ {
		for _, m := range []int{0, 30} {
			times = append(times, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return times
}

// ParseDateTime combines a picker date and time into a timestamp in loc.
func ParseDateTime(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" 15:04", date+" "+timeOfDay, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date/time: %w", err)
	}
	return t, nil
}
