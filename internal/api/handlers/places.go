package handlers

import (
	"net/http"
	"strings"
	"time"

	"maps-extended-service/internal/api/dto"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/services/directions"
	"maps-extended-service/internal/services/openinghours"
	"maps-extended-service/internal/services/placelookup"
)

const distanceLabelConsumer = "place-distance-label"

// PlaceHandler serves per-place views built on cached place details.
type PlaceHandler struct {
	Places     *placelookup.Lookup
	Directions *directions.Controller
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *PlaceHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// OpeningHours reports whether a place is open, and when it next closes or
// opens. The optional "at" query parameter (RFC 3339) replaces the current
// time.
func (h *PlaceHandler) OpeningHours(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	at := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("at")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "at must be an RFC 3339 timestamp")
			return
		}
		at = t
	}

	place, err := h.Places.GetPlace(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get place", err)
		return
	}

	res := dto.OpeningHoursResponse{
		PlaceID:     place.ID,
		At:          at,
		State:       openinghours.StateUnknown,
		CloseStatus: openinghours.UpcomingCloseTime(place, at).Status.String(),
		OpenStatus:  openinghours.UpcomingOpenTime(place, at).Status.String(),
	}
	if summary, ok := openinghours.Summarize(place, at); ok {
		res.State = summary.State
		res.Text = summary.Text
		res.OpenNow = summary.OpenNow
		res.NextClose = summary.NextClose
		res.NextOpen = summary.NextOpen
		res.WeekdayDescriptions = summary.WeekdayDescriptions
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Distance labels the travel distance, or duration when a travel mode is
// given, from the "origin" query parameter to a place.
func (h *PlaceHandler) Distance(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	q := r.URL.Query()

	origin, err := parseLatLng(q.Get("origin"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	mode, err := parseTravelMode(q.Get("travelMode"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place, err := h.Places.GetPlace(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get place", err)
		return
	}

	label := directions.NewLabel(h.Directions.ForConsumer(distanceLabelConsumer))
	label.SetOrigin(&domain.Waypoint{Location: &origin})
	label.SetTravelMode(mode)
	label.Source().SetProvided(place)

	res := dto.PlaceDistanceResponse{PlaceID: place.ID, TravelMode: string(mode)}
	if leg, ok := label.Leg(r.Context()); ok {
		res.Available = true
		res.Text = label.Text(r.Context())
		res.DistanceMeters = leg.DistanceMeters
		res.DurationSeconds = int(leg.Duration.Seconds())
	}

	writeJSON(w, r, http.StatusOK, res)
}
