package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alaik/settlerr/internal/types"
)

// User represents a stored user profile
type User struct {
	ID              uuid.UUID   `json:"id"`
	Username        string      `json:"username"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone,omitempty"`
	DOB             string      `json:"dob,omitempty"`
	Status          string      `json:"status,omitempty"`
	Occupation      string      `json:"occupation,omitempty"`
	Interests       StringArray `json:"interests"` // JSONB array
	Location        string      `json:"location,omitempty"`
	Languages       StringArray `json:"languages"` // JSONB array
	Bio             string      `json:"bio,omitempty"`
	Social          JSONMap     `json:"social,omitempty"` // JSONB object
	PhotoURL        string      `json:"photo_url,omitempty"`
	EventsAttending StringArray `json:"events_attending"` // JSONB array of event IDs
	PasswordHash    string      `json:"-" db:"password_hash"` // Never serialize to JSON
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Profile converts a stored user to the public profile shape, excluding the
// password hash.
func (u *User) Profile() *types.UserProfile {
	if u == nil {
		return nil
	}
	return &types.UserProfile{
		ID:              u.ID,
		Username:        u.Username,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		DOB:             u.DOB,
		Status:          u.Status,
		Occupation:      u.Occupation,
		Interests:       u.Interests,
		Location:        u.Location,
		Languages:       u.Languages,
		Bio:             u.Bio,
		Social:          u.Social,
		PhotoURL:        u.PhotoURL,
		EventsAttending: u.EventsAttending,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// NewUser holds the fields needed to create a user record.
type NewUser struct {
	Username     string
	Name         string
	Email        string
	Phone        string
	DOB          string
	Status       string
	Occupation   string
	Interests    []string
	Location     string
	Languages    []string
	Bio          string
	PasswordHash string
}

// ProfileUpdate holds the mutable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Name       *string
	Phone      *string
	DOB        *string
	Status     *string
	Occupation *string
	Interests  *[]string
	Location   *string
	Languages  *[]string
	Bio        *string
	Social     *map[string]string
	PhotoURL   *string
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("unsupported source type for StringArray")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// JSONMap handles JSONB string-to-string objects
type JSONMap map[string]string

// Scan implements the Scanner interface for JSONMap
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("unsupported source type for JSONMap")
	}
	return json.Unmarshal(source, m)
}

// Value implements the Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
