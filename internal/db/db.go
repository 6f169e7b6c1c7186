// Package db provides PostgreSQL storage for manifest parse history.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/course-navigator/internal/types"
)

const (
	// DefaultListLimit is used when ListParseRecords is called with a non-positive limit
	DefaultListLimit = 20
	// MaxListLimit caps a single ListParseRecords page
	MaxListLimit = 100
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS parse_records (
	id            UUID PRIMARY KEY,
	location      TEXT NOT NULL,
	scorm_version TEXT NOT NULL,
	link_count    INTEGER NOT NULL,
	links         JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS parse_records_created_at_idx ON parse_records (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the parse_records table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveParseRecord stores the links produced for a manifest and returns the record ID
func (db *DB) SaveParseRecord(ctx context.Context, location, version string, links []types.NavigationLink) (uuid.UUID, error) {
	linksJSON, err := encodeLinks(links)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO parse_records (id, location, scorm_version, link_count, links)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, location, version, len(links), linksJSON,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save parse record: %w", err)
	}
	return id, nil
}

// GetParseRecord retrieves a parse record with its links. Returns nil, nil when absent.
func (db *DB) GetParseRecord(ctx context.Context, id uuid.UUID) (*types.ParseRecord, error) {
	var rec types.ParseRecord
	var linksJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, location, scorm_version, link_count, links, created_at
		 FROM parse_records WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Location, &rec.ScormVersion, &rec.LinkCount, &linksJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parse record: %w", err)
	}

	if rec.Links, err = decodeLinks(linksJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListParseRecords returns the most recent records, newest first, without their links
func (db *DB) ListParseRecords(ctx context.Context, limit int) ([]types.ParseRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, location, scorm_version, link_count, created_at
		 FROM parse_records ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list parse records: %w", err)
	}
	defer rows.Close()

	records := []types.ParseRecord{}
	for rows.Next() {
		var rec types.ParseRecord
		if err := rows.Scan(&rec.ID, &rec.Location, &rec.ScormVersion, &rec.LinkCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parse record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parse records: %w", err)
	}
	return records, nil
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

func encodeLinks(links []types.NavigationLink) ([]byte, error) {
	if links == nil {
		links = []types.NavigationLink{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal links: %w", err)
	}
	return data, nil
}

func decodeLinks(data []byte) ([]types.NavigationLink, error) {
	links := []types.NavigationLink{}
	if len(data) == 0 {
		return links, nil
	}
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal links: %w", err)
	}
	return links, nil
}
