package gmaps

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// throttledAPI waits on a token bucket before every call to api.
type throttledAPI struct {
	api     MapsAPI
	limiter *rate.Limiter
}

// Throttle caps calls to api at qps per second with a burst of qps. A
// non-positive qps returns api unchanged.
func Throttle(api MapsAPI, qps int) MapsAPI {
	if qps <= 0 {
		return api
	}
	return &throttledAPI{api: api, limiter: rate.NewLimiter(rate.Limit(qps), qps)}
}

func (t *throttledAPI) wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

func (t *throttledAPI) DistanceMatrix(
	ctx context.Context,
	r *maps.DistanceMatrixRequest,
) (*maps.DistanceMatrixResponse, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	return t.api.DistanceMatrix(ctx, r)
}

func (t *throttledAPI) Directions(
	ctx context.Context,
	r *maps.DirectionsRequest,
) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	if err := t.wait(ctx); err != nil {
		return nil, nil, err
	}
	return t.api.Directions(ctx, r)
}

func (t *throttledAPI) PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	if err := t.wait(ctx); err != nil {
		return maps.PlaceDetailsResult{}, err
	}
	return t.api.PlaceDetails(ctx, r)
}
