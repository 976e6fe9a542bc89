package domain

import "time"

type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

type UnitSystem string

const (
	UnitSystemMetric   UnitSystem = "METRIC"
	UnitSystemImperial UnitSystem = "IMPERIAL"
)

// Batched distance request from one or more origins to many destinations.
// Field names double as the request fingerprint used for caching.
type MatrixRequest struct {
	Origins      []LatLng   `json:"origins"`
	Destinations []LatLng   `json:"destinations"`
	TravelMode   TravelMode `json:"travelMode"`
	UnitSystem   UnitSystem `json:"unitSystem"`
}

type MatrixElement struct {
	Status   string
	Meters   int
	Text     string
	Duration time.Duration
}

type MatrixRow struct {
	Elements []MatrixElement
}

type MatrixResponse struct {
	Rows []MatrixRow
}

// How a distance was calculated.
type DistanceSource int

const (
	// No distance is known.
	DistanceSourceUnknown DistanceSource = iota
	DistanceSourceGeometric
	DistanceSourceDistanceMatrix
)

func (s DistanceSource) String() string {
	switch s {
	case DistanceSourceGeometric:
		return "GEOMETRIC"
	case DistanceSourceDistanceMatrix:
		return "DISTANCE_MATRIX"
	default:
		return "UNKNOWN"
	}
}

// Distance from an origin to one destination. Value is in meters and only
// meaningful when Source is not DistanceSourceUnknown; Text is set only for
// distance matrix results.
type DistanceInfo struct {
	Value  float64
	Text   string
	Source DistanceSource
}
