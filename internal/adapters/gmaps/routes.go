package gmaps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/ports"
)

var travelModes = map[domain.TravelMode]maps.Mode{
	domain.TravelModeDriving:   maps.TravelModeDriving,
	domain.TravelModeWalking:   maps.TravelModeWalking,
	domain.TravelModeBicycling: maps.TravelModeBicycling,
	domain.TravelModeTransit:   maps.TravelModeTransit,
}

var unitSystems = map[domain.UnitSystem]maps.Units{
	domain.UnitSystemMetric:   maps.UnitsMetric,
	domain.UnitSystemImperial: maps.UnitsImperial,
}

type routesLibrary struct {
	api      MapsAPI
	language string
	region   string
}

func (*routesLibrary) Name() string { return ports.LibraryRoutes }

func (r *routesLibrary) NewDistanceMatrixService() ports.DistanceMatrixService {
	return &distanceMatrixService{api: r.api, language: r.language}
}

func (r *routesLibrary) NewDirectionsService() ports.DirectionsService {
	return &directionsService{api: r.api, language: r.language, region: r.region}
}

type distanceMatrixService struct {
	api      MapsAPI
	language string
}

func (s *distanceMatrixService) GetDistanceMatrix(
	ctx context.Context,
	req domain.MatrixRequest,
) (*domain.MatrixResponse, error) {
	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		return nil, domain.NewRequestError(domain.EndpointDistanceMatrix, domain.StatusInvalidRequest,
			"at least one origin and one destination are required", nil)
	}

	resp, err := s.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      latLngStrings(req.Origins),
		Destinations: latLngStrings(req.Destinations),
		Mode:         travelModes[req.TravelMode],
		Units:        unitSystems[req.UnitSystem],
		Language:     s.language,
	})
	if err != nil {
		return nil, toRequestError(domain.EndpointDistanceMatrix, err)
	}

	if len(resp.Rows) != len(req.Origins) {
		return nil, fmt.Errorf("distance matrix: expected %d rows; got %d", len(req.Origins), len(resp.Rows))
	}

	out := &domain.MatrixResponse{Rows: make([]domain.MatrixRow, 0, len(resp.Rows))}
	for i, row := range resp.Rows {
		if len(row.Elements) != len(req.Destinations) {
			return nil, fmt.Errorf(
				"distance matrix: row %d has %d elements; want %d",
				i, len(row.Elements), len(req.Destinations),
			)
		}

		elements := make([]domain.MatrixElement, 0, len(row.Elements))
		for _, el := range row.Elements {
			if el == nil {
				elements = append(elements, domain.MatrixElement{Status: domain.StatusUnknownError})
				continue
			}
			elements = append(elements, domain.MatrixElement{
				Status:   el.Status,
				Meters:   el.Distance.Meters,
				Text:     el.Distance.HumanReadable,
				Duration: el.Duration,
			})
		}
		out.Rows = append(out.Rows, domain.MatrixRow{Elements: elements})
	}

	return out, nil
}

type directionsService struct {
	api      MapsAPI
	language string
	region   string
}

func (s *directionsService) Route(ctx context.Context, req domain.DirectionsRequest) (*domain.DirectionsResult, error) {
	if req.Origin.IsZero() || req.Destination.IsZero() {
		return nil, domain.NewRequestError(domain.EndpointDirectionsRoute, domain.StatusInvalidRequest,
			"origin and destination are required", nil)
	}

	routes, _, err := s.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:      req.Origin.String(),
		Destination: req.Destination.String(),
		Mode:        travelModes[req.TravelMode],
		Language:    s.language,
		Region:      s.region,
	})
	if err != nil {
		return nil, toRequestError(domain.EndpointDirectionsRoute, err)
	}

	out := &domain.DirectionsResult{Routes: make([]domain.Route, 0, len(routes))}
	for _, r := range routes {
		route := domain.Route{Summary: r.Summary, Legs: make([]domain.RouteLeg, 0, len(r.Legs))}
		for _, leg := range r.Legs {
			if leg == nil {
				continue
			}
			route.Legs = append(route.Legs, domain.RouteLeg{
				DistanceMeters: leg.Distance.Meters,
				DistanceText:   leg.Distance.HumanReadable,
				Duration:       leg.Duration,
				StartAddress:   leg.StartAddress,
				EndAddress:     leg.EndAddress,
			})
		}
		out.Routes = append(out.Routes, route)
	}

	return out, nil
}

func latLngStrings(points []domain.LatLng) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.String()
	}
	return out
}

var (
	_ ports.RoutesLibrary         = (*routesLibrary)(nil)
	_ ports.DistanceMatrixService = (*distanceMatrixService)(nil)
	_ ports.DirectionsService     = (*directionsService)(nil)
)
