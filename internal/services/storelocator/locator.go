// Package storelocator ranks configured listings by their distance from a
// searched location.
package storelocator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/services/distances"
)

const consumerName = "store-locator"

// RankedListing is a listing with its distance from the search origin.
type RankedListing struct {
	Listing  domain.Listing
	Distance domain.DistanceInfo
}

// Locator ranks the listings of a repository.
type Locator struct {
	repo     ports.ListingRepository
	measurer *distances.Measurer
	region   string
}

func NewLocator(repo ports.ListingRepository, measurer *distances.Measurer, region string) *Locator {
	return &Locator{repo: repo, measurer: measurer.ForConsumer(consumerName), region: region}
}

// Nearest returns every listing ordered by distance from origin.
func (l *Locator) Nearest(ctx context.Context, origin domain.LatLng) ([]RankedListing, error) {
	listings, err := l.repo.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("nearest: %w", err)
	}
	return Rank(ctx, l.measurer, origin, listings, UnitSystemFor(l.region))
}

// UnitSystemFor picks the unit system travel distances are shown in.
func UnitSystemFor(region string) domain.UnitSystem {
	if strings.EqualFold(region, "US") {
		return domain.UnitSystemImperial
	}
	return domain.UnitSystemMetric
}

// Rank computes distances from origin to each listing and sorts listings
// ascending by distance. Listings with an unknown distance go last; ties are
// broken by title and then place ID so the order is deterministic.
func Rank(
	ctx context.Context,
	m *distances.Measurer,
	origin domain.LatLng,
	listings []domain.Listing,
	units domain.UnitSystem,
) ([]RankedListing, error) {
	if m == nil {
		return nil, errors.New("rank: measurer must not be nil")
	}
	if len(listings) == 0 {
		return []RankedListing{}, nil
	}

	positions := make([]domain.LatLng, len(listings))
	for i, l := range listings {
		positions[i] = l.Position
	}

	infos, err := m.ComputeDistances(ctx, origin, positions, units)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	ranked := make([]RankedListing, len(listings))
	for i, l := range listings {
		ranked[i] = RankedListing{Listing: l, Distance: infos[i]}
	}

	slices.SortFunc(ranked, func(a, b RankedListing) int {
		aKnown := a.Distance.Source != domain.DistanceSourceUnknown
		bKnown := b.Distance.Source != domain.DistanceSourceUnknown
		if aKnown != bKnown {
			if aKnown {
				return -1
			}
			return 1
		}
		if a.Distance.Value < b.Distance.Value {
			return -1
		}
		if a.Distance.Value > b.Distance.Value {
			return 1
		}
		if c := strings.Compare(a.Listing.Title, b.Listing.Title); c != 0 {
			return c
		}
		return strings.Compare(a.Listing.PlaceID, b.Listing.PlaceID)
	})

	return ranked, nil
}
