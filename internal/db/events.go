package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/alaik/settlerr/internal/types"
)

const eventColumns = `id, name, organizer, about, venue, category, tags,
	language, date, rsvp_limit, rsvp_users, created_at`

func scanEvent(row pgx.Row) (*types.Event, error) {
	var e types.Event
	var tags, rsvpUsers StringArray
	err := row.Scan(&e.ID, &e.Name, &e.Organizer, &e.About, &e.Venue,
		&e.Category, &tags, &e.Language, &e.Date, &e.RSVPLimit, &rsvpUsers,
		&e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Tags = tags
	e.RSVPUsers = rsvpUsers
	return &e, nil
}

// CreateEvent inserts a new event and returns its ID
func (db *DB) CreateEvent(ctx context.Context, event *types.Event) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO events (name, organizer, about, venue, category, tags,
		     language, date, rsvp_limit)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		event.Name, event.Organizer, event.About, event.Venue, event.Category,
		StringArray(event.Tags), event.Language, event.Date, event.RSVPLimit,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create event: %w", err)
	}
	return id, nil
}

// GetEvent retrieves an event by ID. Returns (nil, nil) when no event exists.
func (db *DB) GetEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error) {
	event, err := scanEvent(db.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetEventByName retrieves an event by exact name. Returns (nil, nil) when no
// event exists.
func (db *DB) GetEventByName(ctx context.Context, name string) (*types.Event, error) {
	event, err := scanEvent(db.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE name = $1
		 ORDER BY created_at DESC LIMIT 1`, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get event by name: %w", err)
	}
	return event, nil
}

// ListEvents retrieves recent events
func (db *DB) ListEvents(ctx context.Context, limit int) ([]types.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC LIMIT $1`,
		limit)
}

// ListUpcomingEvents retrieves events whose start date is at or after the
// given ISO-8601 timestamp. Dates are stored as normalized ISO-8601 text, so
// lexical comparison orders them chronologically.
func (db *DB) ListUpcomingEvents(ctx context.Context, fromDate string, limit int) ([]types.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE date >= $1 ORDER BY date ASC LIMIT $2`,
		fromDate, limit)
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]types.Event, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var e types.Event
		var tags, rsvpUsers StringArray
		if err := rows.Scan(&e.ID, &e.Name, &e.Organizer, &e.About, &e.Venue,
			&e.Category, &tags, &e.Language, &e.Date, &e.RSVPLimit,
			&rsvpUsers, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Tags = tags
		e.RSVPUsers = rsvpUsers
		events = append(events, e)
	}
	return events, nil
}

// JoinEvent records an RSVP. The attendee list and capacity are checked in a
// single conditional UPDATE so concurrent joins cannot oversubscribe the
// event; the losing request simply matches zero rows and re-reads to find out
// why.
func (db *DB) JoinEvent(ctx context.Context, eventID, userID uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rsvp transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	uid := userID.String()
	result, err := tx.Exec(ctx,
		`UPDATE events
		 SET rsvp_users = rsvp_users || $2::jsonb
		 WHERE id = $1
		   AND NOT rsvp_users @> $2::jsonb
		   AND (rsvp_limit <= 0 OR jsonb_array_length(rsvp_users) < rsvp_limit)`,
		eventID, StringArray{uid},
	)
	if err != nil {
		return fmt.Errorf("failed to join event: %w", err)
	}
	if result.RowsAffected() == 0 {
		event, err := scanEvent(tx.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID))
		if err != nil {
			return fmt.Errorf("failed to join event: %w", err)
		}
		if event == nil {
			return ErrNotFound
		}
		for _, u := range event.RSVPUsers {
			if u == uid {
				return ErrAlreadyJoined
			}
		}
		return ErrEventFull
	}

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET events_attending = events_attending || $2::jsonb, updated_at = NOW()
		 WHERE id = $1 AND NOT events_attending @> $2::jsonb`,
		userID, StringArray{eventID.String()},
	)
	if err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rsvp: %w", err)
	}
	return nil
}

// LeaveEvent removes an RSVP
func (db *DB) LeaveEvent(ctx context.Context, eventID, userID uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rsvp transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	uid := userID.String()
	result, err := tx.Exec(ctx,
		`UPDATE events SET rsvp_users = rsvp_users - $2
		 WHERE id = $1 AND rsvp_users @> $3::jsonb`,
		eventID, uid, StringArray{uid},
	)
	if err != nil {
		return fmt.Errorf("failed to leave event: %w", err)
	}
	if result.RowsAffected() == 0 {
		event, err := scanEvent(tx.QueryRow(ctx,
			`SELECT id, name, organizer, about, venue, category, tags,
			 language, date, rsvp_limit, rsvp_users, created_at
			 FROM events WHERE id = $1`, eventID))
		if err != nil {
			return fmt.Errorf("failed to leave event: %w", err)
		}
		if event == nil {
			return ErrNotFound
		}
		return ErrNotJoined
	}

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET events_attending = events_attending - $2, updated_at = NOW()
		 WHERE id = $1`,
		userID, eventID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rsvp: %w", err)
	}
	return nil
}
