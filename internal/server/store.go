// Package server provides the HTTP REST API for the settlerr backend.
package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/alaik/settlerr/internal/db"
	"github.com/alaik/settlerr/internal/types"
)

// Store is the persistence surface the handlers depend on. *db.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	// Users
	CreateUser(ctx context.Context, input *db.NewUser) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	CheckUsernameExists(ctx context.Context, username string) (bool, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	ListUsersByInterest(ctx context.Context, interest string, limit int) ([]db.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update *db.ProfileUpdate) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// Events
	CreateEvent(ctx context.Context, event *types.Event) (uuid.UUID, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error)
	GetEventByName(ctx context.Context, name string) (*types.Event, error)
	ListEvents(ctx context.Context, limit int) ([]types.Event, error)
	ListUpcomingEvents(ctx context.Context, fromDate string, limit int) ([]types.Event, error)
	JoinEvent(ctx context.Context, eventID, userID uuid.UUID) error
	LeaveEvent(ctx context.Context, eventID, userID uuid.UUID) error

	// Tasks
	GetTasks(ctx context.Context, userID uuid.UUID) ([]types.SettlingTask, error)
	SaveTasks(ctx context.Context, userID uuid.UUID, tasks []types.SettlingTask) error
	RemoveTask(ctx context.Context, userID uuid.UUID, description string) (bool, error)
}
