package handlers

import (
	"net/http"
	"strings"

	"maps-extended-service/internal/api/dto"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/services/directions"
)

type DirectionsHandler struct {
	Controller *directions.Controller
}

func (h *DirectionsHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req dto.DirectionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin, err := toWaypoint(req.Origin)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	destination, err := toWaypoint(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "destination: "+err.Error())
		return
	}
	if origin.IsZero() || destination.IsZero() {
		writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	mode, err := parseTravelMode(req.TravelMode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if mode == "" {
		mode = domain.TravelModeDriving
	}

	result, err := h.Controller.Route(r.Context(), domain.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		TravelMode:  mode,
	})
	if err != nil {
		writeServiceError(w, r, "route", err)
		return
	}

	res := dto.DirectionsResponse{Routes: make([]dto.RouteResponse, 0, len(result.Routes))}
	for _, route := range result.Routes {
		legs := make([]dto.RouteLegResponse, 0, len(route.Legs))
		for _, leg := range route.Legs {
			legs = append(legs, dto.RouteLegResponse{
				DistanceMeters:  leg.DistanceMeters,
				DistanceText:    leg.DistanceText,
				DurationSeconds: int(leg.Duration.Seconds()),
				StartAddress:    leg.StartAddress,
				EndAddress:      leg.EndAddress,
			})
		}
		res.Routes = append(res.Routes, dto.RouteResponse{Summary: route.Summary, Legs: legs})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toWaypoint(w dto.Waypoint) (domain.Waypoint, error) {
	out := domain.Waypoint{
		PlaceID: strings.TrimSpace(w.PlaceID),
		Query:   strings.TrimSpace(w.Query),
	}
	if w.Location != nil {
		loc, err := toLatLng(*w.Location)
		if err != nil {
			return domain.Waypoint{}, err
		}
		out.Location = &loc
	}
	return out, nil
}
