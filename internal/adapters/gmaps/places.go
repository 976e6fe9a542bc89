package gmaps

import (
	"context"
	"fmt"
	"strconv"

	"googlemaps.github.io/maps"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/ports"
)

// Fields requested for every place lookup.
var placeFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"geometry/location",
	"business_status",
	"opening_hours",
	"utc_offset",
}

type placesLibrary struct {
	api      MapsAPI
	language string
	fields   []maps.PlaceDetailsFieldMask
}

func newPlacesLibrary(api MapsAPI, language string) (*placesLibrary, error) {
	fields := make([]maps.PlaceDetailsFieldMask, 0, len(placeFields))
	for _, f := range placeFields {
		mask, err := maps.ParsePlaceDetailsFieldMask(f)
		if err != nil {
			return nil, fmt.Errorf("places library: %w", err)
		}
		fields = append(fields, mask)
	}
	return &placesLibrary{api: api, language: language, fields: fields}, nil
}

func (*placesLibrary) Name() string { return ports.LibraryPlaces }

func (p *placesLibrary) FetchPlace(ctx context.Context, id string) (*domain.Place, error) {
	if id == "" {
		return nil, domain.NewRequestError(domain.EndpointPlaceDetails, domain.StatusInvalidRequest,
			"place ID is required", nil)
	}

	res, err := p.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  id,
		Language: p.language,
		Fields:   p.fields,
	})
	if err != nil {
		return nil, toRequestError(domain.EndpointPlaceDetails, err)
	}

	return toPlace(id, res), nil
}

func toPlace(id string, res maps.PlaceDetailsResult) *domain.Place {
	place := &domain.Place{
		ID:               res.PlaceID,
		Name:             res.Name,
		FormattedAddress: res.FormattedAddress,
		BusinessStatus:   res.BusinessStatus,
	}
	if place.ID == "" {
		place.ID = id
	}

	loc := res.Geometry.Location
	if loc.Lat != 0 || loc.Lng != 0 {
		place.Location = &domain.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	}

	if res.UTCOffset != nil {
		offset := *res.UTCOffset
		place.UTCOffsetMinutes = &offset
	}

	if res.OpeningHours != nil {
		place.RegularOpeningHours = toOpeningHours(res.OpeningHours)
	}

	return place
}

// toOpeningHours drops periods whose times cannot be parsed.
func toOpeningHours(h *maps.OpeningHours) *domain.OpeningHours {
	out := &domain.OpeningHours{
		Periods:             make([]domain.OpeningPeriod, 0, len(h.Periods)),
		WeekdayDescriptions: h.WeekdayText,
	}

	for _, period := range h.Periods {
		open, ok := toOpeningPoint(period.Open)
		if !ok {
			continue
		}

		p := domain.OpeningPeriod{Open: *open}
		if period.Close.Time != "" {
			closing, ok := toOpeningPoint(period.Close)
			if !ok {
				continue
			}
			p.Close = closing
		}
		out.Periods = append(out.Periods, p)
	}

	return out
}

// toOpeningPoint parses the "HHMM" wire format.
func toOpeningPoint(oc maps.OpeningHoursOpenClose) (*domain.OpeningPoint, bool) {
	if len(oc.Time) != 4 || oc.Day < 0 || oc.Day > 6 {
		return nil, false
	}

	hour, err := strconv.Atoi(oc.Time[:2])
	if err != nil || hour < 0 || hour > 23 {
		return nil, false
	}
	minute, err := strconv.Atoi(oc.Time[2:])
	if err != nil || minute < 0 || minute > 59 {
		return nil, false
	}

	return &domain.OpeningPoint{Day: oc.Day, Hour: hour, Minute: minute}, true
}

var _ ports.PlacesLibrary = (*placesLibrary)(nil)
