// Package placelookup resolves place data: a bounded cache of place lookups
// and the precedence rule between a consumer's own place and a provided one.
package placelookup

import (
	"context"
	"errors"
	"fmt"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/requestcache"
	"maps-extended-service/internal/ports"
)

const DefaultCapacity = 100

// Lookup caches places by ID. Concurrent lookups of the same ID share one
// fetch; transient failures are dropped so the next lookup fetches again.
type Lookup struct {
	importer ports.LibraryImporter
	consumer string
	cache    *requestcache.Cache[*domain.Place]
}

// NewLookup creates a Lookup holding at most capacity places. consumer names
// the component using it in loader diagnostics.
func NewLookup(importer ports.LibraryImporter, capacity int, consumer string) *Lookup {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Lookup{
		importer: importer,
		consumer: consumer,
		cache:    requestcache.New[*domain.Place]("places", capacity, domain.IsTransient),
	}
}

// GetPlace returns the cached place with the given ID, fetching it through the
// places library on a miss. An empty ID fails like any other invalid lookup.
func (l *Lookup) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	// Imported before caching so an unavailable SDK is not remembered.
	lib, err := l.importer.ImportLibrary(ctx, ports.LibraryPlaces, l.consumer)
	if err != nil {
		return nil, fmt.Errorf("get place %q: %w", id, err)
	}
	places, ok := lib.(ports.PlacesLibrary)
	if !ok {
		return nil, fmt.Errorf("get place %q: unexpected places library %T", id, lib)
	}

	place, err := l.cache.Do(ctx, id, func(ctx context.Context) (*domain.Place, error) {
		return places.FetchPlace(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("get place %q: %w", id, err)
	}
	return place, nil
}

// UpdatePlace stores place, replacing any cached entry with the same ID.
func (l *Lookup) UpdatePlace(place *domain.Place) error {
	if place == nil {
		return errors.New("update place: nil place")
	}
	return l.cache.Set(place.ID, requestcache.Resolved(place))
}

func (l *Lookup) Len() int { return l.cache.Len() }
