package dto

type LocationResponse struct {
	Title    string   `json:"title"`
	Address  string   `json:"address,omitempty"`
	PlaceID  string   `json:"place_id,omitempty"`
	Position LatLng   `json:"position"`
	Distance Distance `json:"distance"`
}

type ListLocationsResponse struct {
	Origin    LatLng             `json:"origin"`
	Locations []LocationResponse `json:"locations"`
}
