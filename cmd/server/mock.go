package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"maps-extended-service/internal/adapters/gmaps"
	"maps-extended-service/internal/config"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/sdkloader"
)

// installMockSDK publishes an in-memory maps backend, seeded with a place for
// every listing, so the service runs without an API key.
func installMockSDK(
	ctx context.Context,
	loader *sdkloader.Loader,
	repo ports.ListingRepository,
	cfg config.Config,
	log logrus.FieldLogger,
) error {
	listings, err := repo.ListListings(ctx)
	if err != nil {
		return fmt.Errorf("install mock SDK: %w", err)
	}

	api := gmaps.NewMockAPI(nil)
	api.EstimateMissing(true)
	for _, l := range listings {
		if l.PlaceID != "" {
			api.AddPlace(mockPlace(l))
		}
	}

	loader.Global().Install(gmaps.NewSDK(gmaps.Throttle(api, cfg.Maps.RateLimit), cfg.Maps.Language, cfg.Maps.Region))
	log.WithField("places", len(listings)).Warn("no maps API key configured; using the in-memory maps backend")
	return nil
}

// mockPlace opens Monday to Saturday 09:00-18:00 in a zone derived from the
// listing's longitude.
func mockPlace(l domain.Listing) maps.PlaceDetailsResult {
	offset := int(math.Round(l.Position.Lng/15)) * 60

	periods := make([]maps.OpeningHoursPeriod, 0, 6)
	for d := time.Monday; d <= time.Saturday; d++ {
		periods = append(periods, maps.OpeningHoursPeriod{
			Open:  maps.OpeningHoursOpenClose{Day: d, Time: "0900"},
			Close: maps.OpeningHoursOpenClose{Day: d, Time: "1800"},
		})
	}

	return maps.PlaceDetailsResult{
		PlaceID:          l.PlaceID,
		Name:             l.Title,
		FormattedAddress: l.Address,
		BusinessStatus:   domain.BusinessStatusOperational,
		Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: l.Position.Lat, Lng: l.Position.Lng}},
		UTCOffset:        &offset,
		OpeningHours:     &maps.OpeningHours{Periods: periods},
	}
}
