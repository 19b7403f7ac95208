package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tracker/internal/dedup"
)

// FindOrCreateEntity finds an entity by its normalized value or creates it.
// The upsert is atomic, so two concurrent captures of the same company
// resolve to one row.
func (db *DB) FindOrCreateEntity(ctx context.Context, kind, label string, userID uuid.UUID) (*Entity, error) {
	normalized := dedup.NormalizeText(label)
	if normalized == "" {
		return nil, fmt.Errorf("%s label cannot be empty", kind)
	}

	// Try to find existing
	entity, err := db.GetEntityByValue(ctx, kind, normalized, userID)
	if err != nil {
		return nil, err
	}
	if entity != nil {
		return entity, nil
	}

	// Create new
	var e Entity
	err = db.pool.QueryRow(ctx,
		`INSERT INTO entities (kind, label, value, created_by)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (kind, value, created_by) DO UPDATE SET updated_at = NOW()
		 RETURNING id, kind, label, value, created_by, created_at, updated_at`,
		kind, label, normalized, userID,
	).Scan(&e.ID, &e.Kind, &e.Label, &e.Value, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s entity: %w", kind, err)
	}

	return &e, nil
}

// GetEntityByValue retrieves an entity by kind and normalized value
func (db *DB) GetEntityByValue(ctx context.Context, kind, value string, userID uuid.UUID) (*Entity, error) {
	var e Entity
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, label, value, created_by, created_at, updated_at
		 FROM entities WHERE kind = $1 AND value = $2 AND created_by = $3`,
		kind, value, userID,
	).Scan(&e.ID, &e.Kind, &e.Label, &e.Value, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s entity: %w", kind, err)
	}
	return &e, nil
}

// GetEntityByID retrieves an entity by its UUID
func (db *DB) GetEntityByID(ctx context.Context, id uuid.UUID) (*Entity, error) {
	var e Entity
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, label, value, created_by, created_at, updated_at
		 FROM entities WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Kind, &e.Label, &e.Value, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return &e, nil
}
