package store

import (
	"testing"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
)

func TestAssignAndGet(t *testing.T) {
	ps, ts, as := setupTestDB(t)

	p, _ := ps.Create("María", 42, nil)
	task, _ := ts.Create("Sacar basura", nil, model.TaskRecurring, strptr("every day"), nil)

	a, err := as.Assign(task.ID, p.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if a.ProfileID != p.ID || a.TaskID != task.ID {
		t.Errorf("assignment = %d/%d, want %d/%d", a.ProfileID, a.TaskID, p.ID, task.ID)
	}
	if a.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.AssignedAt.IsZero() {
		t.Error("assigned_at should be set")
	}
}

func TestAssignmentGetByIDNotFound(t *testing.T) {
	_, _, as := setupTestDB(t)

	got, err := as.GetByID(9999)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent assignment")
	}
}

func TestReassignMovesTaskBetweenProfiles(t *testing.T) {
	ps, ts, as := setupTestDB(t)

	a, _ := ps.Create("Ana", 40, nil)
	b, _ := ps.Create("Bruno", 44, nil)
	task, _ := ts.Create("Regar plantas", nil, model.TaskRecurring, strptr("every day"), nil)

	assignment, _ := as.Assign(task.ID, a.ID)
	if err := as.UpdateStatus(assignment.ID, model.StatusInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if err := as.Reassign(assignment.ID, b.ID); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	forA, err := as.ListForProfile(a.ID)
	if err != nil {
		t.Fatalf("list for A: %v", err)
	}
	if len(forA) != 0 {
		t.Errorf("profile A should have no assignments, got %d", len(forA))
	}

	forB, err := as.ListForProfile(b.ID)
	if err != nil {
		t.Fatalf("list for B: %v", err)
	}
	if len(forB) != 1 {
		t.Fatalf("profile B should have 1 assignment, got %d", len(forB))
	}
	if forB[0].Task.ID != task.ID {
		t.Errorf("task id = %d, want %d", forB[0].Task.ID, task.ID)
	}
	// Reassignment behaves like a fresh assignment
	if forB[0].Assignment.Status != model.StatusPending {
		t.Errorf("status after reassign = %q, want pending", forB[0].Assignment.Status)
	}
}

func TestReassignNotFound(t *testing.T) {
	ps, _, as := setupTestDB(t)

	p, _ := ps.Create("Ana", 40, nil)
	err := as.Reassign(9999, p.ID)
	if err == nil {
		t.Fatal("reassigning a nonexistent assignment should fail")
	}
	if !fault.IsNotFound(err) {
		t.Errorf("err = %v, want the not-found sentinel", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	ps, ts, as := setupTestDB(t)

	p, _ := ps.Create("María", 42, nil)
	task, _ := ts.Create("Oftalmólogo", nil, model.TaskRecurring, strptr("every day"), nil)
	a, _ := as.Assign(task.ID, p.ID)

	if err := as.UpdateStatus(a.ID, model.StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ := as.GetByID(a.ID)
	if got.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestDeleteForProfile(t *testing.T) {
	ps, ts, as := setupTestDB(t)

	p, _ := ps.Create("Manuel", 45, nil)
	t1, _ := ts.Create("Tarea uno", nil, model.TaskRecurring, strptr("every day"), nil)
	t2, _ := ts.Create("Tarea dos", nil, model.TaskRecurring, strptr("every monday"), nil)
	as.Assign(t1.ID, p.ID)
	as.Assign(t2.ID, p.ID)

	if err := as.DeleteForProfile(p.ID); err != nil {
		t.Fatalf("delete for profile: %v", err)
	}
	items, _ := as.ListForProfile(p.ID)
	if len(items) != 0 {
		t.Errorf("expected 0 assignments, got %d", len(items))
	}

	// With assignments gone the profile row itself can be removed.
	if err := ps.Delete(p.ID); err != nil {
		t.Fatalf("delete profile after cleanup: %v", err)
	}
}

func TestListForProfileJoinsTask(t *testing.T) {
	ps, ts, as := setupTestDB(t)

	p, _ := ps.Create("Tomás", 15, nil)
	task, _ := ts.Create("Pasear perro", strptr("Por la mañana"), model.TaskRecurring, strptr("every day"), nil)
	as.Assign(task.ID, p.ID)

	items, err := as.ListForProfile(p.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Task.Name != "Pasear perro" {
		t.Errorf("task name = %q", it.Task.Name)
	}
	if it.Task.Description == nil || *it.Task.Description != "Por la mañana" {
		t.Errorf("description = %v", it.Task.Description)
	}
	if it.Task.Frequency == nil || *it.Task.Frequency != "every day" {
		t.Errorf("frequency = %v", it.Task.Frequency)
	}
}
