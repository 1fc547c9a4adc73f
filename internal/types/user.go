// Package types provides type definitions for structured data used throughout the settlerr system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Status codes describe a newcomer's immigration situation. They are stored
// as single-letter codes and expanded to descriptive text when building
// prompts or keyword profiles.
const (
	StatusStudent           = "S"
	StatusRefugee           = "R"
	StatusWorker            = "W"
	StatusPermanentResident = "P"
)

// StatusDescription expands a status code to a human-readable description.
func StatusDescription(code string) string {
	switch code {
	case StatusStudent:
		return "International student with a study permit"
	case StatusRefugee:
		return "International refugee seeking employment"
	case StatusWorker:
		return "International worker with a work permit"
	case StatusPermanentResident:
		return "Permanent resident"
	default:
		return "New settler"
	}
}

// UserProfile represents a newcomer's profile. It is treated as an immutable
// snapshot for the duration of a recommendation request.
type UserProfile struct {
	ID              uuid.UUID         `json:"id"`
	Username        string            `json:"username"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	DOB             string            `json:"dob,omitempty"`
	Status          string            `json:"status,omitempty"`
	Occupation      string            `json:"occupation,omitempty"`
	Interests       []string          `json:"interests,omitempty"`
	Location        string            `json:"location,omitempty"`
	Languages       []string          `json:"languages,omitempty"`
	Bio             string            `json:"bio,omitempty"`
	Social          map[string]string `json:"social,omitempty"`
	PhotoURL        string            `json:"photo_url,omitempty"`
	EventsAttending []string          `json:"events_attending,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
