// Package inbox stores contact form submissions posted by widgets in
// remote mode and serves them over HTTP.
package inbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/qrchat/internal/db"
)

// Store manages persistence of submissions.
type Store struct {
	db *db.DB
}

// NewStore creates a new inbox store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create records a submission, assigning its ID and timestamp.
func (s *Store) Create(ctx context.Context, sub Submission) (*Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sub.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, instance_id, name, email, message, origin, user_agent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.InstanceID, sub.Name, sub.Email, sub.Message, sub.Origin, sub.UserAgent, sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}
	return &sub, nil
}

// GetByID retrieves a submission by its ID. It returns nil, nil when
// there is none.
func (s *Store) GetByID(ctx context.Context, id string) (*Submission, error) {
	var sub Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id, instance_id, name, email, message, origin, user_agent, created_at
		 FROM submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.InstanceID, &sub.Name, &sub.Email, &sub.Message, &sub.Origin, &sub.UserAgent, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}
	return &sub, nil
}

// MaxListLimit caps the page size of List.
const MaxListLimit = 200

// List returns submissions matching the filter, newest first, at most
// MaxListLimit at a time.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Submission, error) {
	query := `SELECT id, instance_id, name, email, message, origin, user_agent, created_at FROM submissions`
	var args []any
	if filter.InstanceID != "" {
		query += ` WHERE instance_id = ?`
		args = append(args, filter.InstanceID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, MaxListLimit)
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.InstanceID, &sub.Name, &sub.Email, &sub.Message, &sub.Origin, &sub.UserAgent, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the number of stored submissions for instanceID, or for
// every instance when instanceID is empty.
func (s *Store) Count(ctx context.Context, instanceID string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	var args []any
	if instanceID != "" {
		query += ` WHERE instance_id = ?`
		args = append(args, instanceID)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}
