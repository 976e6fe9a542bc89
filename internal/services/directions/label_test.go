package directions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maps-extended-service/internal/adapters/gmaps"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/logging"
	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/sdkloader"
)

// hookImporter runs hook once, on the first library import.
type hookImporter struct {
	next ports.LibraryImporter
	once sync.Once
	hook func()
}

func (i *hookImporter) ImportLibrary(ctx context.Context, name, consumer string) (ports.Library, error) {
	i.once.Do(i.hook)
	return i.next.ImportLibrary(ctx, name, consumer)
}

func TestLabelNeedsOriginAndDestination(t *testing.T) {
	c, api, _ := newTestController(t)
	l := NewLabel(c)

	assert.Empty(t, l.Text(context.Background()))

	l.Source().SetProvided(&domain.Place{ID: "ChIJ-store"})
	assert.Empty(t, l.Text(context.Background()))
	assert.Equal(t, 0, api.DirectionsCalls())
}

func TestLabelShowsDistanceWithoutTravelMode(t *testing.T) {
	c, _, _ := newTestController(t)
	l := NewLabel(c)
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.Source().SetProvided(&domain.Place{ID: "ChIJ-store"})

	assert.Equal(t, "27.0 km", l.Text(context.Background()))
}

func TestLabelShowsDurationWithTravelMode(t *testing.T) {
	c, _, _ := newTestController(t)
	l := NewLabel(c)
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.SetTravelMode(domain.TravelModeWalking)
	l.Source().SetPlace(&domain.Place{ID: "ChIJ-store"})

	assert.Equal(t, "25 mins", l.Text(context.Background()))
}

func TestLabelUsesPlaceLocationWithoutID(t *testing.T) {
	c, _, _ := newTestController(t)
	l := NewLabel(c)
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.Source().SetProvided(&domain.Place{Location: &destination})

	leg, ok := l.Leg(context.Background())
	require.True(t, ok)
	assert.Equal(t, 6100, leg.DistanceMeters)
}

func TestLabelRefetchesOnlyWhenPlaceIDChanges(t *testing.T) {
	c, api, _ := newTestController(t)
	l := NewLabel(c)
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.Source().SetProvided(&domain.Place{ID: "ChIJ-store"})

	_, ok := l.Leg(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, api.DirectionsCalls())

	// Drop the controller cache so any refetch is visible.
	c.Reset()

	l.Source().SetProvided(&domain.Place{ID: "ChIJ-store", Name: "Same place, new data"})
	leg, ok := l.Leg(context.Background())
	require.True(t, ok)
	assert.Equal(t, 27000, leg.DistanceMeters)
	assert.Equal(t, 1, api.DirectionsCalls())

	l.Source().SetProvided(&domain.Place{ID: "ChIJ-other"})
	leg, ok = l.Leg(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1200, leg.DistanceMeters)
	assert.Equal(t, 2, api.DirectionsCalls())
}

func TestLabelFailedRouteHasNoText(t *testing.T) {
	c, _, _ := newTestController(t)
	l := NewLabel(c)
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.Source().SetProvided(&domain.Place{ID: "ChIJ-unknown"})

	_, ok := l.Leg(context.Background())
	assert.False(t, ok)
	assert.Empty(t, l.Text(context.Background()))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Second, "1 min"},
		{time.Minute, "1 min"},
		{25 * time.Minute, "25 mins"},
		{time.Hour, "1 hour"},
		{65 * time.Minute, "1 hour 5 mins"},
		{2*time.Hour + time.Minute, "2 hours 1 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}

func TestLabelChangeDuringFetchKeepsLabelStale(t *testing.T) {
	api := gmaps.NewMockAPI([]gmaps.MockPair{
		{From: origin.String(), To: "place_id:ChIJ-store", Meters: 27000, Seconds: 1500},
	})
	loader := sdkloader.New(nil, sdkloader.WithLogger(logging.Discard()))
	loader.Global().Install(gmaps.NewSDK(api, "en", ""))

	var l *Label
	importer := &hookImporter{next: loader, hook: func() {
		l.SetTravelMode(domain.TravelModeWalking)
	}}
	l = NewLabel(NewController(importer, logging.Discard()))
	l.SetOrigin(&domain.Waypoint{Location: &origin})
	l.Source().SetProvided(&domain.Place{ID: "ChIJ-store"})

	// The travel mode changes while the driving route is being fetched.
	_, ok := l.Leg(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, api.DirectionsCalls())

	assert.Equal(t, "25 mins", l.Text(context.Background()))
	assert.Equal(t, 2, api.DirectionsCalls())

	_, ok = l.Leg(context.Background())
	require.True(t, ok)
	assert.Equal(t, 2, api.DirectionsCalls())
}
