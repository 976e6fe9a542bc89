package handlers

import (
	"net/http"

	"maps-extended-service/internal/api/dto"
	"maps-extended-service/internal/services/storelocator"
)

type LocationHandler struct {
	Locator *storelocator.Locator
}

// List returns the configured listings nearest first from the lat/lng query
// parameters.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin, err := parseLatLng(q.Get("lat") + "," + q.Get("lng"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lng are required: "+err.Error())
		return
	}

	ranked, err := h.Locator.Nearest(r.Context(), origin)
	if err != nil {
		writeServiceError(w, r, "list locations", err)
		return
	}

	res := dto.ListLocationsResponse{
		Origin:    fromLatLng(origin),
		Locations: make([]dto.LocationResponse, 0, len(ranked)),
	}
	for _, l := range ranked {
		res.Locations = append(res.Locations, dto.LocationResponse{
			Title:    l.Listing.Title,
			Address:  l.Listing.Address,
			PlaceID:  l.Listing.PlaceID,
			Position: fromLatLng(l.Listing.Position),
			Distance: fromDistance(l.Distance),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
