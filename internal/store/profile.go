package store

import (
	"database/sql"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
)

type ProfileStore struct {
	db        *sql.DB
	household int64
}

func NewProfileStore(db *sql.DB, household int64) *ProfileStore {
	return &ProfileStore{db: db, household: household}
}

const profileCols = `id, household_id, name, age, profile_picture, pin IS NOT NULL, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var picture sql.NullString
	err := scanner.Scan(&p.ID, &p.HouseholdID, &p.Name, &p.Age, &picture, &p.HasPIN, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if picture.Valid {
		p.ProfilePicture = &picture.String
	}
	return &p, nil
}

func (s *ProfileStore) Create(name string, age int, picture *string) (*model.Profile, error) {
	var pic sql.NullString
	if picture != nil {
		pic = sql.NullString{String: *picture, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO profiles (household_id, name, age, profile_picture) VALUES (?, ?, ?, ?)`,
		s.household, name, age, pic,
	)
	if err != nil {
		return nil, fault.Storage("insert profile", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fault.Storage("last insert id", err)
	}
	return s.GetByID(id)
}

func (s *ProfileStore) List() ([]model.Profile, error) {
	rows, err := s.db.Query(
		`SELECT `+profileCols+` FROM profiles WHERE household_id = ? ORDER BY name ASC, id ASC`,
		s.household,
	)
	if err != nil {
		return nil, fault.Storage("list profiles", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fault.Storage("scan profile", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *ProfileStore) GetByID(id int64) (*model.Profile, error) {
	row := s.db.QueryRow(
		`SELECT `+profileCols+` FROM profiles WHERE id = ? AND household_id = ?`,
		id, s.household,
	)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Storage("query profile", err)
	}
	return p, nil
}

func (s *ProfileStore) Update(id int64, name string, age int, picture *string) (*model.Profile, error) {
	var pic sql.NullString
	if picture != nil {
		pic = sql.NullString{String: *picture, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE profiles SET name = ?, age = ?, profile_picture = ? WHERE id = ? AND household_id = ?`,
		name, age, pic, id, s.household,
	)
	if err != nil {
		return nil, fault.Storage("update profile", err)
	}
	return s.GetByID(id)
}

// Delete removes the profile row. Dependent assignments are not cascaded by
// the database; callers remove them first via AssignmentStore.
func (s *ProfileStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM profiles WHERE id = ? AND household_id = ?`, id, s.household)
	if err != nil {
		return fault.Storage("delete profile", err)
	}
	return nil
}

func (s *ProfileStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE profiles SET pin = ? WHERE id = ?`, hashedPIN, id)
	if err != nil {
		return fault.Storage("set pin", err)
	}
	return nil
}

func (s *ProfileStore) ClearPIN(id int64) error {
	_, err := s.db.Exec(`UPDATE profiles SET pin = NULL WHERE id = ?`, id)
	if err != nil {
		return fault.Storage("clear pin", err)
	}
	return nil
}

func (s *ProfileStore) GetPINHash(id int64) (string, error) {
	var pin sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM profiles WHERE id = ?`, id).Scan(&pin)
	if err == sql.ErrNoRows {
		return "", fault.ErrNotFound
	}
	if err != nil {
		return "", fault.Storage("query pin", err)
	}
	if !pin.Valid {
		return "", nil
	}
	return pin.String, nil
}
