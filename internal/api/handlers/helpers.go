package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"maps-extended-service/internal/api/dto"
	"maps-extended-service/internal/domain"
	"maps-extended-service/internal/platform/obs"
	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/sdkloader"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for handler failures.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}

func requestLog(r *http.Request) logrus.FieldLogger {
	reqID, _ := r.Context().Value(obs.RequestIDKey).(string)
	return logger.WithFields(logrus.Fields{
		"req_id": reqID,
		"method": r.Method,
		"path":   r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLog(r).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeServiceError maps a service failure to a response. Maps web service
// errors keep their status code so clients can tell a bad request from an
// outage.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var re *domain.RequestError
	switch {
	case errors.As(err, &re):
		status := http.StatusBadGateway
		switch re.Code {
		case domain.StatusInvalidRequest:
			status = http.StatusBadRequest
		case domain.StatusNotFound, domain.StatusZeroResults:
			status = http.StatusNotFound
		case domain.StatusOverQueryLimit:
			status = http.StatusTooManyRequests
		}
		requestLog(r).WithError(err).Warnf("%s failed", op)
		writeJSON(w, r, status, dto.ErrorResponse{Error: re.Message, Code: re.Code})
	case errors.Is(err, sdkloader.ErrSDKUnavailable), errors.Is(err, ports.ErrLibraryNotFound):
		requestLog(r).WithError(err).Error(op + " failed")
		writeError(w, r, http.StatusServiceUnavailable, "maps SDK unavailable")
	default:
		requestLog(r).WithError(err).Error(op + " failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// parseLatLng parses "lat,lng".
func parseLatLng(s string) (domain.LatLng, error) {
	latStr, lngStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return domain.LatLng{}, fmt.Errorf("expected lat,lng; got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("invalid longitude %q", lngStr)
	}
	return toLatLng(dto.LatLng{Lat: lat, Lng: lng})
}

func toLatLng(p dto.LatLng) (domain.LatLng, error) {
	if p.Lat < -90 || p.Lat > 90 {
		return domain.LatLng{}, fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return domain.LatLng{}, fmt.Errorf("longitude %v out of range", p.Lng)
	}
	return domain.LatLng{Lat: p.Lat, Lng: p.Lng}, nil
}

func fromLatLng(p domain.LatLng) dto.LatLng {
	return dto.LatLng{Lat: p.Lat, Lng: p.Lng}
}

func fromDistance(d domain.DistanceInfo) dto.Distance {
	return dto.Distance{Value: d.Value, Text: d.Text, Source: d.Source.String()}
}

var travelModes = map[string]domain.TravelMode{
	"DRIVING":   domain.TravelModeDriving,
	"WALKING":   domain.TravelModeWalking,
	"BICYCLING": domain.TravelModeBicycling,
	"TRANSIT":   domain.TravelModeTransit,
}

// parseTravelMode accepts a travel mode in any case. Empty stays empty.
func parseTravelMode(s string) (domain.TravelMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	mode, ok := travelModes[s]
	if !ok {
		return "", fmt.Errorf("unsupported travel mode %q", s)
	}
	return mode, nil
}
