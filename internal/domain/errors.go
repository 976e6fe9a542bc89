package domain

import (
	"errors"
	"fmt"
)

// Status codes reported by the maps web services.
const (
	StatusOK                   = "OK"
	StatusInvalidRequest       = "INVALID_REQUEST"
	StatusOverQueryLimit       = "OVER_QUERY_LIMIT"
	StatusRequestDenied        = "REQUEST_DENIED"
	StatusUnknownError         = "UNKNOWN_ERROR"
	StatusNotFound             = "NOT_FOUND"
	StatusZeroResults          = "ZERO_RESULTS"
	StatusMaxElementsExceeded  = "MAX_ELEMENTS_EXCEEDED"
	StatusMaxDimensionExceeded = "MAX_DIMENSIONS_EXCEEDED"
)

// Endpoints a RequestError can originate from.
const (
	EndpointDistanceMatrix  = "DISTANCE_MATRIX"
	EndpointDirectionsRoute = "DIRECTIONS_ROUTE"
	EndpointPlaceDetails    = "PLACES_GET_PLACE"
)

// RequestError is a failed maps web service call.
type RequestError struct {
	Code     string
	Endpoint string
	Message  string
	wrapped  error
}

func NewRequestError(endpoint, code, message string, wrapped error) *RequestError {
	return &RequestError{Code: code, Endpoint: endpoint, Message: message, wrapped: wrapped}
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Endpoint, e.Code, e.Message)
}

func (e *RequestError) Unwrap() error { return e.wrapped }

// IsTransient reports whether err is a RequestError whose code indicates that
// the same request may succeed later.
func IsTransient(err error) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	switch re.Code {
	case StatusOverQueryLimit, StatusUnknownError:
		return true
	}
	return false
}
