package dto

type DistancesRequest struct {
	Origin       *LatLng  `json:"origin"`
	Destinations []LatLng `json:"destinations"`
	Units        string   `json:"units"`
}

type DistancesResponse struct {
	Distances []Distance `json:"distances"`
}
