// Package frequency implements the fixed label vocabulary that drives
// recurring-task occurrence matching: "every day", "every <weekday>",
// "every week", and "every month".
package frequency

import (
	"fmt"
	"strings"
	"time"
)

type Kind int

const (
	Daily Kind = iota
	Weekday
	Weekly
	Monthly
)

const EveryDay = "every day"

var weekdayLabels = map[time.Weekday]string{
	time.Sunday:    "every sunday",
	time.Monday:    "every monday",
	time.Tuesday:   "every tuesday",
	time.Wednesday: "every wednesday",
	time.Thursday:  "every thursday",
	time.Friday:    "every friday",
	time.Saturday:  "every saturday",
}

var weekdayFromLabel = map[string]time.Weekday{
	"every sunday":    time.Sunday,
	"every monday":    time.Monday,
	"every tuesday":   time.Tuesday,
	"every wednesday": time.Wednesday,
	"every thursday":  time.Thursday,
	"every friday":    time.Friday,
	"every saturday":  time.Saturday,
}

// Frequency is one parsed vocabulary entry.
type Frequency struct {
	Kind Kind
	Day  time.Weekday // meaningful only when Kind == Weekday
}

// Parse parses a frequency label. Labels outside the fixed vocabulary are
// rejected.
func Parse(label string) (Frequency, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	switch norm {
	case "":
		return Frequency{}, fmt.Errorf("empty frequency")
	case EveryDay:
		return Frequency{Kind: Daily}, nil
	case "every week":
		return Frequency{Kind: Weekly}, nil
	case "every month":
		return Frequency{Kind: Monthly}, nil
	}
	if d, ok := weekdayFromLabel[norm]; ok {
		return Frequency{Kind: Weekday, Day: d}, nil
	}
	return Frequency{}, fmt.Errorf("unknown frequency: %q", label)
}

// String serializes the frequency back to its vocabulary label.
func (f Frequency) String() string {
	switch f.Kind {
	case Daily:
		return EveryDay
	case Weekday:
		return weekdayLabels[f.Day]
	case Weekly:
		return "every week"
	case Monthly:
		return "every month"
	}
	return ""
}

// MatchesDay reports whether a task with this frequency is due on the given
// calendar day. "every week" and "every month" exist in the vocabulary but
// are never matched by the per-day resolver; they are accepted and stored
// but inert until calendar arithmetic for them is decided.
func (f Frequency) MatchesDay(d time.Time) bool {
	switch f.Kind {
	case Daily:
		return true
	case Weekday:
		return f.Day == d.Weekday()
	}
	return false
}

// DayLabel returns the weekday label for d ("every monday" for a Monday).
func DayLabel(d time.Time) string {
	return weekdayLabels[d.Weekday()]
}

// DayMatchLabels returns the labels a recurring task may carry to be due on
// day d. The per-day store query filters on exactly this set.
func DayMatchLabels(d time.Time) []string {
	return []string{EveryDay, DayLabel(d)}
}

// Labels returns the full fixed vocabulary in picker order.
func Labels() []string {
	return []string{
		EveryDay,
		"every monday",
		"every tuesday",
		"every wednesday",
		"every thursday",
		"every friday",
		"every saturday",
		"every sunday",
		"every week",
		"every month",
	}
}

// Describe returns a human-readable description of the label.
func Describe(label string) string {
	f, err := Parse(label)
	if err != nil {
		return ""
	}
	switch f.Kind {
	case Daily:
		return "Repeats daily"
	case Weekday:
		return "Repeats weekly on " + f.Day.String()
	case Weekly:
		return "Repeats weekly"
	case Monthly:
		return "Repeats monthly"
	}
	return ""
}
