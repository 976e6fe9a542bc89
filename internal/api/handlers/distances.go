package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"maps-extended-service/internal/api/dto"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/services/distances"
)

const maxDestinations = 200

type DistanceHandler struct {
	Measurer *distances.Measurer
}

// Compute returns the distance from one origin to each destination, in
// request order.
func (h *DistanceHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.DistancesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Origin == nil {
		writeError(w, r, http.StatusBadRequest, "origin is required")
		return
	}
	origin, err := toLatLng(*req.Origin)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "origin: "+err.Error())
		return
	}

	if len(req.Destinations) > maxDestinations {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d destinations are allowed", maxDestinations))
		return
	}
	destinations := make([]domain.LatLng, 0, len(req.Destinations))
	for i, d := range req.Destinations {
		p, err := toLatLng(d)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("destinations[%d]: %v", i, err))
			return
		}
		destinations = append(destinations, p)
	}

	var units domain.UnitSystem
	switch strings.ToLower(strings.TrimSpace(req.Units)) {
	case "", "metric":
		units = domain.UnitSystemMetric
	case "imperial":
		units = domain.UnitSystemImperial
	default:
		writeError(w, r, http.StatusBadRequest, "units must be metric or imperial")
		return
	}

	infos, err := h.Measurer.ComputeDistances(r.Context(), origin, destinations, units)
	if err != nil {
		writeServiceError(w, r, "compute distances", err)
		return
	}

	res := dto.DistancesResponse{Distances: make([]dto.Distance, 0, len(infos))}
	for _, d := range infos {
		res.Distances = append(res.Distances, fromDistance(d))
	}
	writeJSON(w, r, http.StatusOK, res)
}
