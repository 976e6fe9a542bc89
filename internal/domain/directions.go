package domain

import "time"

// A directions endpoint. Exactly one of PlaceID, Location or Query is used,
// in that order of preference.
type Waypoint struct {
	PlaceID  string  `json:"placeId,omitempty"`
	Location *LatLng `json:"location,omitempty"`
	Query    string  `json:"query,omitempty"`
}

// Return the waypoint in the form accepted by web service requests.
func (w Waypoint) String() string {
	switch {
	case w.PlaceID != "":
		return "place_id:" + w.PlaceID
	case w.Location != nil:
		return w.Location.String()
	default:
		return w.Query
	}
}

func (w Waypoint) IsZero() bool {
	return w.PlaceID == "" && w.Location == nil && w.Query == ""
}

type DirectionsRequest struct {
	Origin      Waypoint   `json:"origin"`
	Destination Waypoint   `json:"destination"`
	TravelMode  TravelMode `json:"travelMode"`
}

// One leg of a route: the trip between two consecutive waypoints.
type RouteLeg struct {
	DistanceMeters int
	DistanceText   string
	Duration       time.Duration
	StartAddress   string
	EndAddress     string
}

type Route struct {
	Summary string
	Legs    []RouteLeg
}

type DirectionsResult struct {
	Routes []Route
}

// FirstLeg returns the first leg of the first route, if any.
func (r *DirectionsResult) FirstLeg() (RouteLeg, bool) {
	if r == nil || len(r.Routes) == 0 || len(r.Routes[0].Legs) == 0 {
		return RouteLeg{}, false
	}
	return r.Routes[0].Legs[0], true
}
