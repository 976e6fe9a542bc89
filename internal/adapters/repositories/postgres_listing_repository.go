package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/obs"
)

// Postgres-backed implementation of the ListingRepository port.
type PostgresListingRepository struct{ DB *sql.DB }

func NewPostgresListingRepository(db *sql.DB) *PostgresListingRepository {
	return &PostgresListingRepository{DB: db}
}

// Return all listings in seeded order.
func (p *PostgresListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.ListListings")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres listing repository: DB is nil")
	}

	query := `
	SELECT
		title,
		address,
		place_id,
		lat,
		lng
	FROM listings
	ORDER BY listing_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list listings: query listings table: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0, 64)
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.Title, &l.Address, &l.PlaceID, &l.Position.Lat, &l.Position.Lng); err != nil {
			return nil, fmt.Errorf("list listings: scan row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: row iteration: %w", err)
	}

	return listings, nil
}
