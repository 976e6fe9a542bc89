package gmaps

import (
	"math"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/ports"
)

// Mean Earth radius used by the spherical geometry library.
const earthRadiusMeters = 6378137

type geometryLibrary struct{}

func (geometryLibrary) Name() string { return ports.LibraryGeometry }

// ComputeDistanceBetween returns the haversine distance in meters.
func (geometryLibrary) ComputeDistanceBetween(from, to domain.LatLng) float64 {
	return ComputeDistanceBetween(from, to)
}

func ComputeDistanceBetween(from, to domain.LatLng) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

var _ ports.GeometryLibrary = geometryLibrary{}
