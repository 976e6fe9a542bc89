package domain

// A store locator entry.
type Listing struct {
	Title    string
	Address  string
	PlaceID  string
	Position LatLng
}
