package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
)

type TaskStore struct {
	db        *sql.DB
	household int64
}

func NewTaskStore(db *sql.DB, household int64) *TaskStore {
	return &TaskStore{db: db, household: household}
}

const taskCols = `id, household_id, name, description, type, frequency, due_date, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var description, freq sql.NullString
	var due sql.NullTime

	err := scanner.Scan(&t.ID, &t.HouseholdID, &t.Name, &description, &t.Type, &freq, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if freq.Valid {
		t.Frequency = &freq.String
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func (s *TaskStore) Create(name string, description *string, taskType model.TaskType, frequency *string, dueDate *time.Time) (*model.Task, error) {
	var desc, freq sql.NullString
	if description != nil {
		desc = sql.NullString{String: *description, Valid: true}
	}
	if frequency != nil {
		freq = sql.NullString{String: *frequency, Valid: true}
	}
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: dueDate.UTC(), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (household_id, name, description, type, frequency, due_date) VALUES (?, ?, ?, ?, ?, ?)`,
		s.household, name, desc, string(taskType), freq, due,
	)
	if err != nil {
		return nil, fault.Storage("insert task", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fault.Storage("last insert id", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(
		`SELECT `+taskCols+` FROM tasks WHERE id = ? AND household_id = ?`,
		id, s.household,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Storage("query task", err)
	}
	return t, nil
}

func (s *TaskStore) List() ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? ORDER BY created_at ASC, id ASC`,
		s.household,
	)
	if err != nil {
		return nil, fault.Storage("list tasks", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fault.Storage("scan task", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, name string, description *string, taskType model.TaskType, frequency *string, dueDate *time.Time) (*model.Task, error) {
	var desc, freq sql.NullString
	if description != nil {
		desc = sql.NullString{String: *description, Valid: true}
	}
	if frequency != nil {
		freq = sql.NullString{String: *frequency, Valid: true}
	}
	var due sql.NullTime
	if dueDate != nil {
		due = sql.NullTime{Time: dueDate.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET name = ?, description = ?, type = ?, frequency = ?, due_date = ? WHERE id = ? AND household_id = ?`,
		name, desc, string(taskType), freq, due, id, s.household,
	)
	if err != nil {
		return nil, fault.Storage("update task", err)
	}
	return s.GetByID(id)
}

// Delete removes the task. Its assignments go with it (ON DELETE CASCADE).
func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND household_id = ?`, id, s.household)
	if err != nil {
		return fault.Storage("delete task", err)
	}
	return nil
}

// Assignee is one assignment row joined with the profile it points at.
type Assignee struct {
	Assignment  model.Assignment
	ProfileName string
}

// TaskWithAssignees is a task plus everyone it is assigned to. Tasks with no
// assignments are never returned by the day queries (inner join).
type TaskWithAssignees struct {
	Task      model.Task
	Assignees []Assignee
}

const dayQueryCols = taskAlias + `, ut.id, ut.user_id, ut.task_id, ut.status, ut.assigned_at, p.name`

const taskAlias = `t.id, t.household_id, t.name, t.description, t.type, t.frequency, t.due_date, t.created_at, t.updated_at`

// QueryOneTimeInRange returns one-time tasks whose due_date falls within
// [start, end], each with its assignees. Bounds are inclusive on both ends.
func (s *TaskStore) QueryOneTimeInRange(start, end time.Time) ([]TaskWithAssignees, error) {
	rows, err := s.db.Query(
		`SELECT `+dayQueryCols+`
		 FROM tasks t
		 JOIN user_tasks ut ON ut.task_id = t.id
		 JOIN profiles p ON p.id = ut.user_id
		 WHERE t.household_id = ? AND t.type = 'one-time' AND t.due_date >= ? AND t.due_date <= ?
		 ORDER BY t.due_date ASC, t.id ASC, ut.id ASC`,
		s.household, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fault.Storage("query one-time tasks", err)
	}
	defer rows.Close()

	return collectTaskAssignees(rows)
}

// QueryRecurringMatching returns recurring tasks whose frequency equals one
// of the given labels, each with its assignees.
func (s *TaskStore) QueryRecurringMatching(labels []string) ([]TaskWithAssignees, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(labels)-1) + "?"
	args := make([]any, 0, len(labels)+1)
	args = append(args, s.household)
	for _, l := range labels {
		args = append(args, l)
	}

	rows, err := s.db.Query(
		`SELECT `+dayQueryCols+`
		 FROM tasks t
		 JOIN user_tasks ut ON ut.task_id = t.id
		 JOIN profiles p ON p.id = ut.user_id
		 WHERE t.household_id = ? AND t.type = 'recurring' AND t.frequency IN (`+placeholders+`)
		 ORDER BY t.created_at ASC, t.id ASC, ut.id ASC`,
		args...,
	)
	if err != nil {
		return nil, fault.Storage("query recurring tasks", err)
	}
	defer rows.Close()

	return collectTaskAssignees(rows)
}

// collectTaskAssignees groups flat join rows into one entry per task,
// preserving the query's row order.
func collectTaskAssignees(rows *sql.Rows) ([]TaskWithAssignees, error) {
	var result []TaskWithAssignees
	index := make(map[int64]int)

	for rows.Next() {
		var t model.Task
		var description, freq sql.NullString
		var due sql.NullTime
		var a Assignee

		err := rows.Scan(
			&t.ID, &t.HouseholdID, &t.Name, &description, &t.Type, &freq, &due, &t.CreatedAt, &t.UpdatedAt,
			&a.Assignment.ID, &a.Assignment.ProfileID, &a.Assignment.TaskID, &a.Assignment.Status, &a.Assignment.AssignedAt,
			&a.ProfileName,
		)
		if err != nil {
			return nil, fault.Storage("scan task row", err)
		}

		if description.Valid {
			t.Description = &description.String
		}
		if freq.Valid {
			t.Frequency = &freq.String
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}

		i, ok := index[t.ID]
		if !ok {
			i = len(result)
			index[t.ID] = i
			result = append(result, TaskWithAssignees{Task: t})
		}
		result[i].Assignees = append(result[i].Assignees, a)
	}
	return result, rows.Err()
}
