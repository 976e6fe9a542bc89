// Package gmaps adapts the Google Maps web service client to the SDK and
// library ports.
package gmaps

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/sdkloader"
)

// MapsAPI is the subset of *maps.Client the libraries call.
type MapsAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

// SDK serves libraries backed by one MapsAPI client.
type SDK struct {
	api      MapsAPI
	language string
	region   string
}

func NewSDK(api MapsAPI, language, region string) *SDK {
	return &SDK{api: api, language: language, region: region}
}

// NewBootstrap returns the bootstrap used by the SDK loader. rateLimit caps
// outbound queries per second; zero keeps the client default.
func NewBootstrap(rateLimit int, log logrus.FieldLogger) sdkloader.BootstrapFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(ctx context.Context, opts sdkloader.Options) (ports.SDK, error) {
		clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.Key)}
		if opts.SolutionChannel != "" {
			clientOpts = append(clientOpts, maps.WithChannel(opts.SolutionChannel))
		}

		client, err := maps.NewClient(clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: create maps client: %w", err)
		}

		log.WithFields(logrus.Fields{
			"version":              opts.Version,
			"language":             opts.Language,
			"region":               opts.Region,
			"solution_channel":     opts.SolutionChannel,
			"auth_referrer_policy": opts.AuthReferrerPolicy,
		}).Info("maps SDK bootstrapped")

		return NewSDK(Throttle(client, rateLimit), opts.Language, opts.Region), nil
	}
}

func (s *SDK) ImportLibrary(ctx context.Context, name string) (ports.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch name {
	case ports.LibraryCore, ports.LibraryMaps, ports.LibraryMarker:
		return baseLibrary(name), nil
	case ports.LibraryGeometry:
		return geometryLibrary{}, nil
	case ports.LibraryRoutes:
		return &routesLibrary{api: s.api, language: s.language, region: s.region}, nil
	case ports.LibraryPlaces:
		return newPlacesLibrary(s.api, s.language)
	}
	return nil, fmt.Errorf("%w: %q", ports.ErrLibraryNotFound, name)
}

// baseLibrary carries no operations; importing it only signals readiness.
type baseLibrary string

func (b baseLibrary) Name() string { return string(b) }

var _ ports.SDK = (*SDK)(nil)
