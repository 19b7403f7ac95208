package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// FindOrCreateSource finds a capture source by value or creates it. Sources
// are shared across users.
func (db *DB) FindOrCreateSource(ctx context.Context, label, value string) (*Source, error) {
	if value == "" {
		return nil, fmt.Errorf("source value cannot be empty")
	}

	var s Source
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sources (label, value)
		 VALUES ($1, $2)
		 ON CONFLICT (value) DO UPDATE SET label = EXCLUDED.label
		 RETURNING id, label, value, created_at`,
		label, value,
	).Scan(&s.ID, &s.Label, &s.Value, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return &s, nil
}

// GetStatusByValue retrieves a status by its value ("draft", "applied", ...)
func (db *DB) GetStatusByValue(ctx context.Context, value string) (*Status, error) {
	var st Status
	err := db.pool.QueryRow(ctx,
		`SELECT id, label, value, sort_order FROM statuses WHERE value = $1`,
		value,
	).Scan(&st.ID, &st.Label, &st.Value, &st.SortOrder)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &st, nil
}
