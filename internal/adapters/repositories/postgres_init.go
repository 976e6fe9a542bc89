package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the listings table.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createListingsQuery := `
	CREATE TABLE IF NOT EXISTS listings (
		listing_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		place_id TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_listings_place_id
	ON listings(place_id);
	`

	statements := []string{
		createListingsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedFromJSON replaces the listings table with the listings in a JSON file.
// The position in the file becomes the listing ID so configured order is
// preserved.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed listings: DB is nil")
	}

	listings, err := LoadListings(jsonPath)
	if err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed listings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings;`); err != nil {
		return fmt.Errorf("seed listings: clear table: %w", err)
	}

	query := `
	INSERT INTO listings (
		listing_id,
		title,
		address,
		place_id,
		lat,
		lng
	)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed listings: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		id := i + 1
		if _, err := stmt.ExecContext(ctx, id, l.Title, l.Address, l.PlaceID, l.Position.Lat, l.Position.Lng); err != nil {
			return fmt.Errorf("seed listings: insert listing_id=%d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed listings: commit tx: %w", err)
	}

	return nil
}
