package storelocator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maps-extended-service/internal/adapters/gmaps"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/logging"
	"maps-extended-service/internal/sdkloader"
	"maps-extended-service/internal/services/distances"
)

type stubRepo struct {
	listings []domain.Listing
	err      error
}

func (r stubRepo) ListListings(context.Context) ([]domain.Listing, error) {
	return r.listings, r.err
}

var (
	searchOrigin = domain.LatLng{Lat: 37.7749, Lng: -122.4194}

	ferry   = domain.Listing{Title: "Ferry Building", PlaceID: "ChIJ-ferry", Position: domain.LatLng{Lat: 37.7955, Lng: -122.3937}}
	mission = domain.Listing{Title: "Mission", PlaceID: "ChIJ-mission", Position: domain.LatLng{Lat: 37.7599, Lng: -122.4148}}
	sunset  = domain.Listing{Title: "Sunset", PlaceID: "ChIJ-sunset", Position: domain.LatLng{Lat: 37.7531, Lng: -122.4944}}
	oakland = domain.Listing{Title: "Oakland", PlaceID: "ChIJ-oakland", Position: domain.LatLng{Lat: 37.8044, Lng: -122.2712}}
)

func pair(l domain.Listing, meters int) gmaps.MockPair {
	return gmaps.MockPair{From: searchOrigin.String(), To: l.Position.String(), Meters: meters, Seconds: meters / 10}
}

func newTestMeasurer(pairs ...gmaps.MockPair) *distances.Measurer {
	loader := sdkloader.New(nil, sdkloader.WithLogger(logging.Discard()))
	loader.Global().Install(gmaps.NewSDK(gmaps.NewMockAPI(pairs), "en", ""))
	return distances.NewMeasurer(loader)
}

func titles(ranked []RankedListing) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Listing.Title
	}
	return out
}

func TestRankSortsByTravelDistance(t *testing.T) {
	m := newTestMeasurer(pair(ferry, 4200), pair(mission, 2100), pair(sunset, 7300))

	ranked, err := Rank(context.Background(), m, searchOrigin,
		[]domain.Listing{ferry, mission, sunset}, domain.UnitSystemMetric)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mission", "Ferry Building", "Sunset"}, titles(ranked))
	assert.Equal(t, "2.1 km", ranked[0].Distance.Text)
	assert.Equal(t, domain.DistanceSourceDistanceMatrix, ranked[0].Distance.Source)
}

func TestRankPutsUnknownDistancesLast(t *testing.T) {
	// No route to Oakland.
	m := newTestMeasurer(pair(ferry, 4200), pair(mission, 2100))

	ranked, err := Rank(context.Background(), m, searchOrigin,
		[]domain.Listing{oakland, ferry, mission}, domain.UnitSystemMetric)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mission", "Ferry Building", "Oakland"}, titles(ranked))
	assert.Equal(t, domain.DistanceSourceUnknown, ranked[2].Distance.Source)
}

func TestRankBreaksTiesDeterministically(t *testing.T) {
	twin := domain.Listing{Title: "Annex", PlaceID: "ChIJ-annex", Position: ferry.Position}
	m := newTestMeasurer(pair(ferry, 4200))

	ranked, err := Rank(context.Background(), m, searchOrigin,
		[]domain.Listing{ferry, twin}, domain.UnitSystemMetric)
	require.NoError(t, err)

	assert.Equal(t, []string{"Annex", "Ferry Building"}, titles(ranked))
}

func TestRankEmpty(t *testing.T) {
	ranked, err := Rank(context.Background(), newTestMeasurer(), searchOrigin, nil, domain.UnitSystemMetric)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankRequiresMeasurer(t *testing.T) {
	_, err := Rank(context.Background(), nil, searchOrigin, []domain.Listing{ferry}, domain.UnitSystemMetric)
	assert.Error(t, err)
}

func TestUnitSystemFor(t *testing.T) {
	assert.Equal(t, domain.UnitSystemImperial, UnitSystemFor("US"))
	assert.Equal(t, domain.UnitSystemImperial, UnitSystemFor("us"))
	assert.Equal(t, domain.UnitSystemMetric, UnitSystemFor("GB"))
	assert.Equal(t, domain.UnitSystemMetric, UnitSystemFor(""))
}

func TestNearestUsesRegionUnits(t *testing.T) {
	repo := stubRepo{listings: []domain.Listing{ferry, mission}}
	m := newTestMeasurer(pair(ferry, 4200), pair(mission, 2100))

	ranked, err := NewLocator(repo, m, "US").Nearest(context.Background(), searchOrigin)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "1.3 mi", ranked[0].Distance.Text)

	ranked, err = NewLocator(repo, m, "DE").Nearest(context.Background(), searchOrigin)
	require.NoError(t, err)
	assert.Equal(t, "2.1 km", ranked[0].Distance.Text)
}

func TestNearestRepositoryError(t *testing.T) {
	failure := errors.New("listings unavailable")
	_, err := NewLocator(stubRepo{err: failure}, newTestMeasurer(), "").Nearest(context.Background(), searchOrigin)
	assert.ErrorIs(t, err, failure)
}
