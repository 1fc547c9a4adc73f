package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, name, email, phone, dob, status, occupation,
	interests, location, languages, bio, social, photo_url, events_attending,
	password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone, &u.DOB,
		&u.Status, &u.Occupation, &u.Interests, &u.Location, &u.Languages,
		&u.Bio, &u.Social, &u.PhotoURL, &u.EventsAttending, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user record and returns its ID
func (db *DB) CreateUser(ctx context.Context, input *NewUser) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (username, name, email, phone, dob, status, occupation,
		     interests, location, languages, bio, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		input.Username, input.Name, input.Email, input.Phone, input.DOB,
		input.Status, input.Occupation, StringArray(input.Interests),
		input.Location, StringArray(input.Languages), input.Bio,
		input.PasswordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when no user exists.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) when no
// user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// CheckUsernameExists reports whether a username is already taken
func (db *DB) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// CheckEmailExists reports whether an email is already registered
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a user's password hash
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile applies a partial profile update. Nil fields are left as-is.
func (db *DB) UpdateProfile(ctx context.Context, userID uuid.UUID, update *ProfileUpdate) error {
	query := `UPDATE users SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Phone != nil {
		set("phone", *update.Phone)
	}
	if update.DOB != nil {
		set("dob", *update.DOB)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.Occupation != nil {
		set("occupation", *update.Occupation)
	}
	if update.Interests != nil {
		set("interests", StringArray(*update.Interests))
	}
	if update.Location != nil {
		set("location", *update.Location)
	}
	if update.Languages != nil {
		set("languages", StringArray(*update.Languages))
	}
	if update.Bio != nil {
		set("bio", *update.Bio)
	}
	if update.Social != nil {
		set("social", JSONMap(*update.Social))
	}
	if update.PhotoURL != nil {
		set("photo_url", *update.PhotoURL)
	}

	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, userID)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsersByInterest retrieves users whose interests include the given value
func (db *DB) ListUsersByInterest(ctx context.Context, interest string, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE interests @> $1 ORDER BY created_at DESC LIMIT $2`,
		StringArray{interest}, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by interest: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone,
			&u.DOB, &u.Status, &u.Occupation, &u.Interests, &u.Location,
			&u.Languages, &u.Bio, &u.Social, &u.PhotoURL, &u.EventsAttending,
			&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}

// DeleteUser removes a user record
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
