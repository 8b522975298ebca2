package occurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/outmind-app/outmind/internal/database"
	"github.com/outmind-app/outmind/internal/model"
	"github.com/outmind-app/outmind/internal/store"
)

// fakeGateway returns canned query results and records the arguments it saw.
type fakeGateway struct {
	oneTime      []store.TaskWithAssignees
	recurring    []store.TaskWithAssignees
	oneTimeErr   error
	recurringErr error

	gotStart  time.Time
	gotEnd    time.Time
	gotLabels []string
}

func (f *fakeGateway) QueryOneTimeInRange(start, end time.Time) ([]store.TaskWithAssignees, error) {
	f.gotStart, f.gotEnd = start, end
	return f.oneTime, f.oneTimeErr
}

func (f *fakeGateway) QueryRecurringMatching(labels []string) ([]store.TaskWithAssignees, error) {
	f.gotLabels = labels
	return f.recurring, f.recurringErr
}

func strptr(s string) *string { return &s }

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func oneTimeTask(id int64, name string, due time.Time, assignees ...store.Assignee) store.TaskWithAssignees {
	return store.TaskWithAssignees{
		Task:      model.Task{ID: id, Name: name, Type: model.TaskOneTime, DueDate: &due},
		Assignees: assignees,
	}
}

func recurringTask(id int64, name, freq string, assignees ...store.Assignee) store.TaskWithAssignees {
	return store.TaskWithAssignees{
		Task:      model.Task{ID: id, Name: name, Type: model.TaskRecurring, Frequency: strptr(freq)},
		Assignees: assignees,
	}
}

func assignee(assignmentID int64, name string, status model.AssignmentStatus) store.Assignee {
	return store.Assignee{
		Assignment:  model.Assignment{ID: assignmentID, Status: status},
		ProfileName: name,
	}
}

func TestResolveDayBoundsAndLabels(t *testing.T) {
	g := &fakeGateway{}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 12, 0, 0, 0, time.UTC))

	// Saturday, asked mid-afternoon: bounds still cover the whole day.
	if _, err := r.Resolve(time.Date(2025, 8, 16, 15, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	wantStart := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 8, 16, 23, 59, 59, 999000000, time.UTC)
	if !g.gotStart.Equal(wantStart) {
		t.Errorf("start = %v, want %v", g.gotStart, wantStart)
	}
	if !g.gotEnd.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", g.gotEnd, wantEnd)
	}
	if !reflect.DeepEqual(g.gotLabels, []string{"every day", "every saturday"}) {
		t.Errorf("labels = %v, want [every day, every saturday]", g.gotLabels)
	}
}

func TestResolveDayBoundsOnDSTTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Spring forward (23h day) and fall back (25h day): the end bound must
	// stay inside the requested calendar day either way.
	days := []time.Time{
		time.Date(2025, 3, 9, 0, 0, 0, 0, loc),
		time.Date(2025, 11, 2, 0, 0, 0, 0, loc),
	}

	for _, day := range days {
		g := &fakeGateway{}
		r := NewResolver(g)
		r.now = fixedNow(day)

		if _, err := r.Resolve(day); err != nil {
			t.Fatalf("resolve %v: %v", day, err)
		}

		wantEnd := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, loc)
		if !g.gotEnd.Equal(wantEnd) {
			t.Errorf("%s: end = %v, want %v", day.Format("2006-01-02"), g.gotEnd, wantEnd)
		}
		if g.gotEnd.Day() != day.Day() {
			t.Errorf("%s: end bound landed on day %d of the month", day.Format("2006-01-02"), g.gotEnd.Day())
		}
	}
}

func TestResolveSingleAssigneeScenario(t *testing.T) {
	// Task{one-time, due 2025-08-16T16:30, assignees:[María]} resolved on
	// 2025-08-16 yields {time:"16:30", profile María, pending}.
	due := time.Date(2025, 8, 16, 16, 30, 0, 0, time.UTC)
	g := &fakeGateway{
		oneTime: []store.TaskWithAssignees{
			oneTimeTask(7, "Oftalmólogo", due, assignee(21, "María", model.StatusPending)),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}

	occ := occs[0]
	if occ.Title != "Oftalmólogo" {
		t.Errorf("title = %q", occ.Title)
	}
	if occ.Time != "16:30" {
		t.Errorf("time = %q, want 16:30", occ.Time)
	}
	if occ.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", occ.Status)
	}
	single, ok := occ.Assignee.(SingleAssignee)
	if !ok {
		t.Fatalf("assignee = %T, want SingleAssignee", occ.Assignee)
	}
	if single.ProfileName != "María" || single.AssignmentID != 21 {
		t.Errorf("assignee = %+v", single)
	}
	if occ.Assignee.Label() != "María" {
		t.Errorf("label = %q", occ.Assignee.Label())
	}
}

func TestResolveCollapsesMultipleAssignees(t *testing.T) {
	g := &fakeGateway{
		recurring: []store.TaskWithAssignees{
			recurringTask(3, "Sacar basura", "every day",
				assignee(1, "María", model.StatusPending),
				assignee(2, "Martin", model.StatusPending),
			),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("expected exactly 1 aggregate occurrence, got %d", len(occs))
	}

	all, ok := occs[0].Assignee.(AllAssignees)
	if !ok {
		t.Fatalf("assignee = %T, want AllAssignees", occs[0].Assignee)
	}
	if occs[0].Assignee.Label() != AllAssigneesLabel {
		t.Errorf("label = %q, want %q", occs[0].Assignee.Label(), AllAssigneesLabel)
	}
	if !reflect.DeepEqual(all.ProfileNames, []string{"María", "Martin"}) {
		t.Errorf("profile names = %v", all.ProfileNames)
	}
	if occs[0].Time != RecurringDisplayTime {
		t.Errorf("time = %q, want %q", occs[0].Time, RecurringDisplayTime)
	}
}

func TestResolveSkipsNonMatchingRecurringRows(t *testing.T) {
	// The gateway may hand back rows the day query over-approximated; the
	// parsed frequency has the final say.
	g := &fakeGateway{
		recurring: []store.TaskWithAssignees{
			recurringTask(1, "Diaria", "every day", assignee(1, "María", model.StatusPending)),
			recurringTask(2, "Semanal", "every week", assignee(2, "María", model.StatusPending)),
			recurringTask(3, "Lunes", "every monday", assignee(3, "María", model.StatusPending)),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

	// 2025-08-16 is a Saturday: the weekly and Monday rows must drop out.
	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	if occs[0].TaskID != 1 {
		t.Errorf("task = %d, want the daily task", occs[0].TaskID)
	}
}

func TestResolveAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.AssignmentStatus
		want     model.AssignmentStatus
	}{
		{"all pending", []model.AssignmentStatus{model.StatusPending, model.StatusPending}, model.StatusPending},
		{"one started", []model.AssignmentStatus{model.StatusInProgress, model.StatusPending}, model.StatusInProgress},
		{"partially done", []model.AssignmentStatus{model.StatusCompleted, model.StatusPending}, model.StatusInProgress},
		{"all done", []model.AssignmentStatus{model.StatusCompleted, model.StatusCompleted}, model.StatusCompleted},
	}

	for _, tt := range tests {
		assignees := make([]store.Assignee, len(tt.statuses))
		for i, st := range tt.statuses {
			assignees[i] = assignee(int64(i+1), "P", st)
		}
		g := &fakeGateway{recurring: []store.TaskWithAssignees{recurringTask(1, "T", "every day", assignees...)}}
		r := NewResolver(g)
		r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

		occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("%s: resolve: %v", tt.name, err)
		}
		if occs[0].Status != tt.want {
			t.Errorf("%s: status = %q, want %q", tt.name, occs[0].Status, tt.want)
		}
	}
}

func TestResolvePastDayForcesCompleted(t *testing.T) {
	due := time.Date(2025, 8, 10, 16, 30, 0, 0, time.UTC)
	g := &fakeGateway{
		oneTime: []store.TaskWithAssignees{
			oneTimeTask(1, "Vencida", due, assignee(1, "María", model.StatusPending)),
		},
		recurring: []store.TaskWithAssignees{
			recurringTask(2, "Diaria", "every day",
				assignee(2, "María", model.StatusPending),
				assignee(3, "Martin", model.StatusInProgress),
			),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

	occs, err := r.Resolve(time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	for _, occ := range occs {
		if occ.Status != model.StatusCompleted {
			t.Errorf("%s: status = %q, want completed for past day", occ.Title, occ.Status)
		}
	}
}

func TestResolveTodayNotOverridden(t *testing.T) {
	g := &fakeGateway{
		recurring: []store.TaskWithAssignees{
			recurringTask(1, "Hoy", "every day", assignee(1, "María", model.StatusPending)),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 23, 0, 0, 0, time.UTC))

	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if occs[0].Status != model.StatusPending {
		t.Errorf("status = %q, want pending for today", occs[0].Status)
	}
}

func TestResolveOneTimeBeforeRecurring(t *testing.T) {
	due := time.Date(2025, 8, 16, 20, 0, 0, 0, time.UTC)
	g := &fakeGateway{
		oneTime: []store.TaskWithAssignees{
			oneTimeTask(1, "Única", due, assignee(1, "María", model.StatusPending)),
		},
		recurring: []store.TaskWithAssignees{
			recurringTask(2, "Diaria", "every day", assignee(2, "María", model.StatusPending)),
		},
	}
	r := NewResolver(g)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))

	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if occs[0].Type != model.TaskOneTime || occs[1].Type != model.TaskRecurring {
		t.Errorf("order = %q, %q; want one-time then recurring", occs[0].Type, occs[1].Type)
	}
}

func TestResolvePropagatesQueryErrors(t *testing.T) {
	boom := errors.New("connection reset")

	r := NewResolver(&fakeGateway{oneTimeErr: boom})
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))
	if _, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)); !errors.Is(err, boom) {
		t.Errorf("one-time failure: err = %v, want wrapped %v", err, boom)
	}

	r = NewResolver(&fakeGateway{recurringErr: boom})
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))
	if _, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)); !errors.Is(err, boom) {
		t.Errorf("recurring failure: err = %v, want wrapped %v", err, boom)
	}
}

// The remaining tests run against the real store on an in-memory database.

func setupStoreResolver(t *testing.T) (*store.ProfileStore, *store.TaskStore, *store.AssignmentStore, *Resolver) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ps := store.NewProfileStore(db, store.DefaultHouseholdID)
	ts := store.NewTaskStore(db, store.DefaultHouseholdID)
	as := store.NewAssignmentStore(db)
	r := NewResolver(ts)
	r.now = fixedNow(time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC))
	return ps, ts, as, r
}

func TestResolveWeekdayExclusivity(t *testing.T) {
	ps, ts, as, r := setupStoreResolver(t)

	p, _ := ps.Create("Tomás", 15, nil)
	task, _ := ts.Create("Cortar pasto", nil, model.TaskRecurring, strptr("every saturday"), nil)
	if _, err := as.Assign(task.ID, p.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	saturday := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	occs, err := r.Resolve(saturday)
	if err != nil {
		t.Fatalf("resolve saturday: %v", err)
	}
	if len(occs) != 1 || occs[0].TaskID != task.ID {
		t.Fatalf("saturday occurrences = %v, want the task", occs)
	}

	for offset := 1; offset < 7; offset++ {
		day := saturday.AddDate(0, 0, offset)
		occs, err := r.Resolve(day)
		if err != nil {
			t.Fatalf("resolve %v: %v", day, err)
		}
		if len(occs) != 0 {
			t.Errorf("%v (%v): task should not appear, got %d occurrences", day.Format("2006-01-02"), day.Weekday(), len(occs))
		}
	}
}

func TestResolveEveryDayAppearsEveryDay(t *testing.T) {
	ps, ts, as, r := setupStoreResolver(t)

	p, _ := ps.Create("María", 42, nil)
	task, _ := ts.Create("Pasear perro", nil, model.TaskRecurring, strptr("every day"), nil)
	as.Assign(task.ID, p.ID)

	start := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		occs, err := r.Resolve(start.AddDate(0, 0, offset))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(occs) != 1 {
			t.Errorf("day +%d: expected 1 occurrence, got %d", offset, len(occs))
		}
	}
}

func TestResolveInertFrequenciesNeverAppear(t *testing.T) {
	ps, ts, as, r := setupStoreResolver(t)

	p, _ := ps.Create("María", 42, nil)
	weekly, _ := ts.Create("Compras", nil, model.TaskRecurring, strptr("every week"), nil)
	monthly, _ := ts.Create("Pagar alquiler", nil, model.TaskRecurring, strptr("every month"), nil)
	as.Assign(weekly.ID, p.ID)
	as.Assign(monthly.ID, p.ID)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 31; offset++ {
		occs, err := r.Resolve(start.AddDate(0, 0, offset))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(occs) != 0 {
			t.Errorf("day +%d: week/month tasks should be inert, got %d occurrences", offset, len(occs))
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	ps, ts, as, r := setupStoreResolver(t)

	maria, _ := ps.Create("María", 42, nil)
	martin, _ := ps.Create("Martin", 12, nil)

	due := time.Date(2025, 8, 16, 16, 30, 0, 0, time.UTC)
	appointment, _ := ts.Create("Oftalmólogo", nil, model.TaskOneTime, nil, &due)
	as.Assign(appointment.ID, maria.ID)

	chore, _ := ts.Create("Sacar basura", nil, model.TaskRecurring, strptr("every day"), nil)
	as.Assign(chore.ID, maria.ID)
	as.Assign(chore.ID, martin.ID)

	day := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	first, err := r.Resolve(day)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.Resolve(day)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolve is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(first))
	}
}

func TestResolveNeverReturnsDeletedProfile(t *testing.T) {
	ps, ts, as, r := setupStoreResolver(t)

	maria, _ := ps.Create("María", 42, nil)
	martin, _ := ps.Create("Martin", 12, nil)

	chore, _ := ts.Create("Sacar basura", nil, model.TaskRecurring, strptr("every day"), nil)
	as.Assign(chore.ID, maria.ID)
	as.Assign(chore.ID, martin.ID)

	// Referential cleanup first, then the profile row.
	if err := as.DeleteForProfile(martin.ID); err != nil {
		t.Fatalf("delete assignments: %v", err)
	}
	if err := ps.Delete(martin.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	occs, err := r.Resolve(time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	single, ok := occs[0].Assignee.(SingleAssignee)
	if !ok {
		t.Fatalf("assignee = %T, want SingleAssignee after deletion collapsed the group", occs[0].Assignee)
	}
	if single.ProfileName != "María" {
		t.Errorf("assignee = %q, deleted profile must not appear", single.ProfileName)
	}
}
