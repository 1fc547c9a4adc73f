package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Event represents a local community event. The matchmaking engine never
// mutates an Event; it annotates a copy (see ScoredEvent).
type Event struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Organizer string    `json:"organizer,omitempty"`
	About     string    `json:"about,omitempty"`
	Venue     string    `json:"venue,omitempty"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Language  string    `json:"language,omitempty"`
	Date      string    `json:"date,omitempty"` // ISO-8601, optional timezone
	RSVPLimit int       `json:"rsvp_limit,omitempty"`
	RSVPUsers []string  `json:"rsvp_users,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEventRequest represents the request to create an event.
type CreateEventRequest struct {
	Name      string   `json:"name" validate:"required,min=1"`
	Organizer string   `json:"organizer" validate:"required,min=1"`
	About     string   `json:"about,omitempty"`
	Venue     string   `json:"venue,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Language  string   `json:"language,omitempty"`
	Date      string   `json:"date" validate:"required"`
	RSVPLimit int      `json:"rsvp_limit,omitempty" validate:"omitempty,min=1"`
}

// Validate validates the CreateEventRequest using the validator.
func (r *CreateEventRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
