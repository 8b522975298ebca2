package model

import "time"

type Household struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID             int64     `json:"id"`
	HouseholdID    int64     `json:"household_id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	ProfilePicture *string   `json:"profile_picture"`
	HasPIN         bool      `json:"has_pin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
