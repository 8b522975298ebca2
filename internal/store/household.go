package store

import (
	"database/sql"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
)

// DefaultHouseholdID is the single seeded household every record belongs to
// until multi-tenancy is introduced.
const DefaultHouseholdID int64 = 1

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	var h model.Household
	err := s.db.QueryRow(
		`SELECT id, name, created_at FROM households WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Storage("query household", err)
	}
	return &h, nil
}

func (s *HouseholdStore) Rename(id int64, name string) error {
	_, err := s.db.Exec(`UPDATE households SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fault.Storage("rename household", err)
	}
	return nil
}
