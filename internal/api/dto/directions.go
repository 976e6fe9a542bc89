package dto

type Waypoint struct {
	PlaceID  string  `json:"place_id,omitempty"`
	Location *LatLng `json:"location,omitempty"`
	Query    string  `json:"query,omitempty"`
}

type DirectionsRequest struct {
	Origin      Waypoint `json:"origin"`
	Destination Waypoint `json:"destination"`
	TravelMode  string   `json:"travel_mode"`
}

type RouteLegResponse struct {
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int    `json:"duration_seconds"`
	StartAddress    string `json:"start_address,omitempty"`
	EndAddress      string `json:"end_address,omitempty"`
}

type RouteResponse struct {
	Summary string             `json:"summary"`
	Legs    []RouteLegResponse `json:"legs"`
}

type DirectionsResponse struct {
	Routes []RouteResponse `json:"routes"`
}
