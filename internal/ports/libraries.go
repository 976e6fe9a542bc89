package ports

import (
	"context"

	"maps-extended-service/internal/domain"
)

// Spherical geometry utilities.
type GeometryLibrary interface {
	Library
	// Return the great-circle distance in meters between two points.
	ComputeDistanceBetween(from, to domain.LatLng) float64
}

// Distance and directions services.
type RoutesLibrary interface {
	Library
	NewDistanceMatrixService() DistanceMatrixService
	NewDirectionsService() DirectionsService
}

// Place data lookups.
type PlacesLibrary interface {
	Library
	// Return the place with the given ID, with opening hours, offset, status and location.
	FetchPlace(ctx context.Context, id string) (*domain.Place, error)
}

// Contract for batched origin -> destinations travel distances.
type DistanceMatrixService interface {
	GetDistanceMatrix(ctx context.Context, req domain.MatrixRequest) (*domain.MatrixResponse, error)
}

// Contract for point-to-point routes.
type DirectionsService interface {
	Route(ctx context.Context, req domain.DirectionsRequest) (*domain.DirectionsResult, error)
}
