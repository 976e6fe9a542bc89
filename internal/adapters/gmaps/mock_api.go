package gmaps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"googlemaps.github.io/maps"

	"maps-extended-service/internal/domain"
)

// MockPair is a canned travel distance between two waypoints, keyed by their
// wire form ("lat,lng", "place_id:..." or a free-text query).
type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockAPI is an in-memory MapsAPI for local runs and tests.
type MockAPI struct {
	mu     sync.Mutex
	pairs  map[string]MockPair
	places map[string]maps.PlaceDetailsResult
	err    error
	// Estimate missing coordinate pairs instead of reporting them not found.
	estimate bool

	matrixRequests []maps.DistanceMatrixRequest
	directions     int
	placeDetails   int
}

func NewMockAPI(pairs []MockPair) *MockAPI {
	m := make(map[string]MockPair, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p
	}
	return &MockAPI{pairs: m, places: map[string]maps.PlaceDetailsResult{}}
}

func (m *MockAPI) AddPlace(res maps.PlaceDetailsResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[res.PlaceID] = res
}

// EstimateMissing makes pairs without a canned entry resolve to an estimate
// when both ends are coordinates: the great-circle distance stretched by a
// road factor, travelled at a fixed average speed.
func (m *MockAPI) EstimateMissing(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimate = enabled
}

// FailWith makes every following call return err; nil clears it.
func (m *MockAPI) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// MatrixRequests returns the distance matrix requests received so far.
func (m *MockAPI) MatrixRequests() []maps.DistanceMatrixRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]maps.DistanceMatrixRequest(nil), m.matrixRequests...)
}

func (m *MockAPI) DirectionsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.directions
}

func (m *MockAPI) PlaceDetailsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeDetails
}

func (m *MockAPI) DistanceMatrix(
	ctx context.Context,
	r *maps.DistanceMatrixRequest,
) (*maps.DistanceMatrixResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matrixRequests = append(m.matrixRequests, *r)
	if m.err != nil {
		return nil, m.err
	}

	resp := &maps.DistanceMatrixResponse{
		OriginAddresses:      r.Origins,
		DestinationAddresses: r.Destinations,
		Rows:                 make([]maps.DistanceMatrixElementsRow, 0, len(r.Origins)),
	}
	for _, origin := range r.Origins {
		row := maps.DistanceMatrixElementsRow{Elements: make([]*maps.DistanceMatrixElement, 0, len(r.Destinations))}
		for _, dest := range r.Destinations {
			p, ok := m.pairLocked(origin, dest)
			if !ok {
				row.Elements = append(row.Elements, &maps.DistanceMatrixElement{Status: domain.StatusNotFound})
				continue
			}
			row.Elements = append(row.Elements, &maps.DistanceMatrixElement{
				Status:   domain.StatusOK,
				Duration: time.Duration(p.Seconds) * time.Second,
				Distance: maps.Distance{HumanReadable: distanceText(p.Meters, r.Units), Meters: p.Meters},
			})
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func (m *MockAPI) Directions(
	ctx context.Context,
	r *maps.DirectionsRequest,
) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.directions++
	if m.err != nil {
		return nil, nil, m.err
	}

	p, ok := m.pairLocked(r.Origin, r.Destination)
	if !ok {
		return nil, nil, fmt.Errorf("maps: %s - no route from %q to %q", domain.StatusZeroResults, r.Origin, r.Destination)
	}

	leg := &maps.Leg{
		Duration:     time.Duration(p.Seconds) * time.Second,
		StartAddress: p.From,
		EndAddress:   p.To,
	}
	leg.Distance = maps.Distance{HumanReadable: distanceText(p.Meters, maps.UnitsMetric), Meters: p.Meters}

	return []maps.Route{{Summary: p.From + " to " + p.To, Legs: []*maps.Leg{leg}}}, nil, nil
}

func (m *MockAPI) PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.placeDetails++
	if m.err != nil {
		return maps.PlaceDetailsResult{}, m.err
	}

	res, ok := m.places[r.PlaceID]
	if !ok {
		return maps.PlaceDetailsResult{}, fmt.Errorf("maps: %s - unknown place %q", domain.StatusNotFound, r.PlaceID)
	}
	return res, nil
}

const (
	mockRoadFactor = 1.3
	// Meters per second, roughly 45 km/h.
	mockSpeed = 12.5
)

func (m *MockAPI) pairLocked(from, to string) (MockPair, bool) {
	if p, ok := m.pairs[from+"|"+to]; ok {
		return p, true
	}
	if !m.estimate {
		return MockPair{}, false
	}

	a, okA := parseLatLng(from)
	b, okB := parseLatLng(to)
	if !okA || !okB {
		return MockPair{}, false
	}
	meters := int(math.Round(ComputeDistanceBetween(a, b) * mockRoadFactor))
	return MockPair{From: from, To: to, Meters: meters, Seconds: int(float64(meters) / mockSpeed)}, true
}

func parseLatLng(s string) (domain.LatLng, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.LatLng{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.LatLng{}, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return domain.LatLng{}, false
	}
	return domain.LatLng{Lat: lat, Lng: lng}, true
}

func distanceText(meters int, units maps.Units) string {
	if units == maps.UnitsImperial {
		return fmt.Sprintf("%.1f mi", float64(meters)/1609.344)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

var _ MapsAPI = (*MockAPI)(nil)
