package dto

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Distance struct {
	Value  float64 `json:"value"`
	Text   string  `json:"text,omitempty"`
	Source string  `json:"source"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
