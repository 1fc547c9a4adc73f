package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/alaik/settlerr/internal/types"
)

// GetTasks retrieves a user's settling-in task list
func (db *DB) GetTasks(ctx context.Context, userID uuid.UUID) ([]types.SettlingTask, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT tasks FROM users WHERE id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	if len(raw) == 0 {
		return []types.SettlingTask{}, nil
	}
	var tasks []types.SettlingTask
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// SaveTasks replaces a user's settling-in task list
func (db *DB) SaveTasks(ctx context.Context, userID uuid.UUID, tasks []types.SettlingTask) error {
	if tasks == nil {
		tasks = []types.SettlingTask{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE users SET tasks = $1, updated_at = NOW() WHERE id = $2`,
		raw, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveTask deletes a task by description from a user's list. The list is
// read, filtered and written back inside one transaction so concurrent
// removals cannot resurrect a completed task. Matching is case-insensitive.
// Returns whether a task was removed.
func (db *DB) RemoveTask(ctx context.Context, userID uuid.UUID, description string) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin task transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT tasks FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to read tasks: %w", err)
	}

	var tasks []types.SettlingTask
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return false, fmt.Errorf("failed to decode tasks: %w", err)
		}
	}

	want := strings.ToLower(strings.TrimSpace(description))
	kept := make([]types.SettlingTask, 0, len(tasks))
	removed := false
	for _, task := range tasks {
		if !removed && strings.ToLower(strings.TrimSpace(task.Description)) == want {
			removed = true
			continue
		}
		kept = append(kept, task)
	}
	if !removed {
		return false, nil
	}

	updated, err := json.Marshal(kept)
	if err != nil {
		return false, fmt.Errorf("failed to encode tasks: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE users SET tasks = $1, updated_at = NOW() WHERE id = $2`,
		updated, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to write tasks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit task removal: %w", err)
	}
	return true, nil
}
