package store

import (
	"database/sql"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

const assignmentCols = `id, user_id, task_id, status, assigned_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	err := scanner.Scan(&a.ID, &a.ProfileID, &a.TaskID, &a.Status, &a.AssignedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Assign attaches a task to a profile with status pending.
func (s *AssignmentStore) Assign(taskID, profileID int64) (*model.Assignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO user_tasks (user_id, task_id, status) VALUES (?, ?, 'pending')`,
		profileID, taskID,
	)
	if err != nil {
		return nil, fault.Storage("insert assignment", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fault.Storage("last insert id", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) GetByID(id int64) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM user_tasks WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Storage("query assignment", err)
	}
	return a, nil
}

// Reassign moves the assignment to a new profile in a single UPDATE, so the
// task is never without an owner mid-operation. The status resets to pending
// and the assignment timestamp restarts, matching a fresh assignment.
func (s *AssignmentStore) Reassign(id, newProfileID int64) error {
	result, err := s.db.Exec(
		`UPDATE user_tasks SET user_id = ?, status = 'pending', assigned_at = datetime('now') WHERE id = ?`,
		newProfileID, id,
	)
	if err != nil {
		return fault.Storage("reassign", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fault.Storage("rows affected", err)
	}
	if n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func (s *AssignmentStore) UpdateStatus(id int64, status model.AssignmentStatus) error {
	result, err := s.db.Exec(`UPDATE user_tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fault.Storage("update status", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fault.Storage("rows affected", err)
	}
	if n == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func (s *AssignmentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM user_tasks WHERE id = ?`, id)
	if err != nil {
		return fault.Storage("delete assignment", err)
	}
	return nil
}

// DeleteForProfile removes every assignment belonging to a profile. Used as
// the cleanup step before deleting the profile itself.
func (s *AssignmentStore) DeleteForProfile(profileID int64) error {
	_, err := s.db.Exec(`DELETE FROM user_tasks WHERE user_id = ?`, profileID)
	if err != nil {
		return fault.Storage("delete assignments for profile", err)
	}
	return nil
}

// AssignmentWithTask is one assignment joined with the task it points at,
// for a profile's task list screen.
type AssignmentWithTask struct {
	Assignment model.Assignment
	Task       model.Task
}

func (s *AssignmentStore) ListForProfile(profileID int64) ([]AssignmentWithTask, error) {
	rows, err := s.db.Query(
		`SELECT ut.id, ut.user_id, ut.task_id, ut.status, ut.assigned_at,
		        t.id, t.household_id, t.name, t.description, t.type, t.frequency, t.due_date, t.created_at, t.updated_at
		 FROM user_tasks ut
		 JOIN tasks t ON t.id = ut.task_id
		 WHERE ut.user_id = ?
		 ORDER BY ut.assigned_at ASC, ut.id ASC`,
		profileID,
	)
	if err != nil {
		return nil, fault.Storage("list assignments for profile", err)
	}
	defer rows.Close()

	var items []AssignmentWithTask
	for rows.Next() {
		var it AssignmentWithTask
		var description, freq sql.NullString
		var due sql.NullTime

		err := rows.Scan(
			&it.Assignment.ID, &it.Assignment.ProfileID, &it.Assignment.TaskID, &it.Assignment.Status, &it.Assignment.AssignedAt,
			&it.Task.ID, &it.Task.HouseholdID, &it.Task.Name, &description, &it.Task.Type, &freq, &due, &it.Task.CreatedAt, &it.Task.UpdatedAt,
		)
		if err != nil {
			return nil, fault.Storage("scan assignment row", err)
		}

		if description.Valid {
			it.Task.Description = &description.String
		}
		if freq.Valid {
			it.Task.Frequency = &freq.String
		}
		if due.Valid {
			d := due.Time
			it.Task.DueDate = &d
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
