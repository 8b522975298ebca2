package taskform

import (
	"testing"
	"time"

	"github.com/outmind-app/outmind/internal/model"
)

var testNow = time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)

func TestToggleToOneTimeSeedsDefaults(t *testing.T) {
	f := Form{Type: model.TaskRecurring, Frequency: "every monday"}

	got := ToggleType(f, model.TaskOneTime, testNow)

	if got.Type != model.TaskOneTime {
		t.Errorf("type = %q", got.Type)
	}
	if got.Date != "17-08-2025" {
		t.Errorf("date = %q, want tomorrow (17-08-2025)", got.Date)
	}
	if got.Time != DefaultTime {
		t.Errorf("time = %q, want %q", got.Time, DefaultTime)
	}
	if got.Frequency != "" {
		t.Errorf("frequency = %q, want cleared", got.Frequency)
	}
}

func TestToggleToRecurringResetsFrequency(t *testing.T) {
	f := Form{Type: model.TaskOneTime, Date: "20-08-2025", Time: "16:30"}

	got := ToggleType(f, model.TaskRecurring, testNow)

	if got.Frequency != "every day" {
		t.Errorf("frequency = %q, want every day", got.Frequency)
	}
	if got.Date != "" || got.Time != "" {
		t.Errorf("date/time = %q/%q, want cleared", got.Date, got.Time)
	}
}

func TestToggleSameTypeIsNoOp(t *testing.T) {
	f := Form{Type: model.TaskOneTime, Date: "20-08-2025", Time: "16:30"}

	got := ToggleType(f, model.TaskOneTime, testNow)
	if got != f {
		t.Errorf("got %+v, want unchanged %+v", got, f)
	}
}

func TestDateOptions(t *testing.T) {
	dates := DateOptions(testNow, 45)
	if len(dates) != 45 {
		t.Fatalf("len = %d, want 45", len(dates))
	}
	if dates[0] != "16-08-2025" {
		t.Errorf("dates[0] = %q, want today", dates[0])
	}
	if dates[1] != "17-08-2025" {
		t.Errorf("dates[1] = %q, want tomorrow", dates[1])
	}
	// Crosses the month boundary
	if dates[16] != "01-09-2025" {
		t.Errorf("dates[16] = %q, want 01-09-2025", dates[16])
	}
}

func TestTimeOptions(t *testing.T) {
	times := TimeOptions()
	if len(times) != 34 {
		t.Fatalf("len = %d, want 34 (06:00 through 22:30)", len(times))
	}
	if times[0] != "06:00" {
		t.Errorf("first = %q, want 06:00", times[0])
	}
	if times[len(times)-1] != "22:30" {
		t.Errorf("last = %q, want 22:30", times[len(times)-1])
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("16-08-2025", "16:30", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 8, 16, 16, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDateTimeRejectsGarbage(t *testing.T) {
	if _, err := ParseDateTime("mañana", "18:00", time.UTC); err == nil {
		t.Error("expected error for unparseable date")
	}
}
