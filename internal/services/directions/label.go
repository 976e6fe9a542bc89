package directions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/services/placelookup"
)

// Label tracks the travel distance from an origin to a place. The route leg is
// fetched again only after the origin, the travel mode or the destination
// place ID changes.
type Label struct {
	controller *Controller
	source     *placelookup.Source

	mu         sync.Mutex
	origin     *domain.Waypoint
	travelMode domain.TravelMode
	stale      bool
	generation uint64 // bumped by every invalidation
	leg        *domain.RouteLeg
}

func NewLabel(c *Controller) *Label {
	l := &Label{controller: c, stale: true}
	l.source = placelookup.NewSource(func(cur, prev *domain.Place) {
		if placeID(cur) != placeID(prev) {
			l.invalidate()
		}
	})
	return l
}

// Source is where the destination place is set.
func (l *Label) Source() *placelookup.Source { return l.source }

func (l *Label) SetOrigin(origin *domain.Waypoint) {
	l.mu.Lock()
	l.origin = origin
	l.mu.Unlock()
	l.invalidate()
}

// SetTravelMode selects the travel mode; an empty mode requests driving
// directions and labels the distance rather than the duration.
func (l *Label) SetTravelMode(mode domain.TravelMode) {
	l.mu.Lock()
	l.travelMode = mode
	l.mu.Unlock()
	l.invalidate()
}

func (l *Label) invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stale = true
	l.generation++
}

// Leg returns the first leg of the route to the current place. It reports
// false when the origin or destination is missing or the request failed.
func (l *Label) Leg(ctx context.Context) (domain.RouteLeg, bool) {
	l.mu.Lock()
	if !l.stale {
		defer l.mu.Unlock()
		if l.leg == nil {
			return domain.RouteLeg{}, false
		}
		return *l.leg, true
	}
	origin := l.origin
	mode := l.travelMode
	generation := l.generation
	l.mu.Unlock()

	var leg *domain.RouteLeg
	destination := waypointFor(l.source.Place())
	if origin != nil && !origin.IsZero() && !destination.IsZero() {
		if mode == "" {
			mode = domain.TravelModeDriving
		}
		res, err := l.controller.Route(ctx, domain.DirectionsRequest{
			Origin:      *origin,
			Destination: destination,
			TravelMode:  mode,
		})
		if err == nil {
			if first, ok := res.FirstLeg(); ok {
				leg = &first
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// A change that landed during the fetch keeps the label stale.
	if l.generation == generation {
		l.leg = leg
		l.stale = false
	}
	if leg == nil {
		return domain.RouteLeg{}, false
	}
	return *leg, true
}

// Text is the travel duration when a travel mode is set, otherwise the
// distance. It is empty when no leg is available.
func (l *Label) Text(ctx context.Context) string {
	leg, ok := l.Leg(ctx)
	if !ok {
		return ""
	}

	l.mu.Lock()
	mode := l.travelMode
	l.mu.Unlock()

	if mode != "" && leg.Duration > 0 {
		return FormatDuration(leg.Duration)
	}
	return leg.DistanceText
}

// FormatDuration renders d rounded to minutes, e.g. "1 hour 5 mins".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	hours, minutes := minutes/60, minutes%60

	switch {
	case hours == 0:
		return plural(minutes, "min")
	case minutes == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " " + plural(minutes, "min")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func placeID(p *domain.Place) string {
	if p == nil {
		return ""
	}
	return p.ID
}

func waypointFor(p *domain.Place) domain.Waypoint {
	switch {
	case p == nil:
		return domain.Waypoint{}
	case p.ID != "":
		return domain.Waypoint{PlaceID: p.ID}
	case p.Location != nil:
		loc := *p.Location
		return domain.Waypoint{Location: &loc}
	default:
		return domain.Waypoint{}
	}
}
