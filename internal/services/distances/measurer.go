// Package distances computes travel distances from one origin to many
// destinations on top of the distance matrix service.
package distances

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/obs"
	"maps-extended-service/internal/platform/requestcache"
	"maps-extended-service/internal/ports"
)

const (
	CacheSize = 10

	// Most destinations the distance matrix service accepts per request.
	MaxMatrixDestinations = 25
)

// state is shared by every Measurer derived from the same root.
type state struct {
	mu      sync.Mutex
	cache   *requestcache.Cache[*domain.MatrixResponse]
	service ports.DistanceMatrixService
}

func newCache() *requestcache.Cache[*domain.MatrixResponse] {
	return requestcache.New[*domain.MatrixResponse]("distance_matrix", CacheSize, domain.IsTransient)
}

// Measurer computes distances from one origin to N destinations. Identical
// requests share one distance matrix call through a request cache.
type Measurer struct {
	importer ports.LibraryImporter
	consumer string
	shared   *state
}

func NewMeasurer(importer ports.LibraryImporter) *Measurer {
	return &Measurer{
		importer: importer,
		shared:   &state{cache: newCache()},
	}
}

// ForConsumer returns a Measurer that shares m's cache and service but names
// consumer in loader diagnostics.
func (m *Measurer) ForConsumer(consumer string) *Measurer {
	return &Measurer{importer: m.importer, consumer: consumer, shared: m.shared}
}

// ComputeDistances returns one DistanceInfo per destination, in the order
// given.
//
// With more than MaxMatrixDestinations destinations every destination first
// gets a geometric distance; only the nearest MaxMatrixDestinations are then
// refined with travel distances.
func (m *Measurer) ComputeDistances(
	ctx context.Context,
	origin domain.LatLng,
	destinations []domain.LatLng,
	units domain.UnitSystem,
) (_ []domain.DistanceInfo, err error) {
	defer obs.Time(ctx, "compute_distances")(&err)

	out := make([]domain.DistanceInfo, len(destinations))
	if len(destinations) == 0 {
		return out, nil
	}

	// Indexes into destinations, in the order sent for refinement.
	lookup := make([]int, len(destinations))
	for i := range lookup {
		lookup[i] = i
	}

	if len(destinations) > MaxMatrixDestinations {
		lib, err := m.importer.ImportLibrary(ctx, ports.LibraryGeometry, m.consumer)
		if err != nil {
			return nil, fmt.Errorf("compute distances: %w", err)
		}
		geometry, ok := lib.(ports.GeometryLibrary)
		if !ok {
			return nil, fmt.Errorf("compute distances: unexpected geometry library %T", lib)
		}

		for i, dest := range destinations {
			out[i] = domain.DistanceInfo{
				Value:  geometry.ComputeDistanceBetween(origin, dest),
				Source: domain.DistanceSourceGeometric,
			}
		}

		slices.SortStableFunc(lookup, func(a, b int) int {
			da, db := out[a].Value, out[b].Value
			if da < db {
				return -1
			}
			if da > db {
				return 1
			}
			return 0
		})
		lookup = lookup[:MaxMatrixDestinations]
	}

	req := domain.MatrixRequest{
		Origins:      []domain.LatLng{origin},
		Destinations: make([]domain.LatLng, len(lookup)),
		TravelMode:   domain.TravelModeDriving,
		UnitSystem:   units,
	}
	for i, idx := range lookup {
		req.Destinations[i] = destinations[idx]
	}

	m.shared.mu.Lock()
	cache := m.shared.cache
	m.shared.mu.Unlock()

	// Resolved outside the cache: an unavailable SDK fails this call only.
	svc, err := m.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute distances: %w", err)
	}

	resp, err := cache.Do(ctx, req, func(ctx context.Context) (*domain.MatrixResponse, error) {
		return svc.GetDistanceMatrix(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("compute distances: %w", err)
	}
	if resp == nil || len(resp.Rows) == 0 {
		return nil, errors.New("compute distances: distance matrix returned no rows")
	}

	elements := resp.Rows[0].Elements
	for i, idx := range lookup {
		if i >= len(elements) {
			break
		}
		el := elements[i]
		if el.Status != domain.StatusOK {
			continue
		}
		out[idx] = domain.DistanceInfo{
			Value:  float64(el.Meters),
			Text:   el.Text,
			Source: domain.DistanceSourceDistanceMatrix,
		}
	}

	return out, nil
}

// service returns the shared distance matrix service, importing the routes
// library on first use.
func (m *Measurer) service(ctx context.Context) (ports.DistanceMatrixService, error) {
	m.shared.mu.Lock()
	svc := m.shared.service
	m.shared.mu.Unlock()
	if svc != nil {
		return svc, nil
	}

	lib, err := m.importer.ImportLibrary(ctx, ports.LibraryRoutes, m.consumer)
	if err != nil {
		return nil, err
	}
	routes, ok := lib.(ports.RoutesLibrary)
	if !ok {
		return nil, fmt.Errorf("unexpected routes library %T", lib)
	}

	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	if m.shared.service == nil {
		m.shared.service = routes.NewDistanceMatrixService()
	}
	return m.shared.service, nil
}

// Reset drops the cached responses and the service handle.
func (m *Measurer) Reset() {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	m.shared.service = nil
	m.shared.cache = newCache()
}
