package dto

import "time"

type OpeningHoursResponse struct {
	PlaceID             string     `json:"place_id"`
	At                  time.Time  `json:"at"`
	State               string     `json:"state"`
	Text                string     `json:"text"`
	OpenNow             *bool      `json:"open_now"`
	CloseStatus         string     `json:"close_status"`
	NextClose           *time.Time `json:"next_close,omitempty"`
	OpenStatus          string     `json:"open_status"`
	NextOpen            *time.Time `json:"next_open,omitempty"`
	WeekdayDescriptions []string   `json:"weekday_descriptions,omitempty"`
}

type PlaceDistanceResponse struct {
	PlaceID         string `json:"place_id"`
	TravelMode      string `json:"travel_mode,omitempty"`
	Available       bool   `json:"available"`
	Text            string `json:"text"`
	DistanceMeters  int    `json:"distance_meters,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}
