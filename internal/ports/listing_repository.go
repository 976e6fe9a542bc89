package ports

import (
	"context"

	"maps-extended-service/internal/domain"
)

// Port: a boundary for retrieving store locator listings from a data source.
type ListingRepository interface {
	// Retrieve all listings, in configured order.
	ListListings(ctx context.Context) ([]domain.Listing, error)
}
