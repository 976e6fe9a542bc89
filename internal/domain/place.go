package domain

import "time"

// A relative point in a place's week, in the place's local time.
type OpeningPoint struct {
	Day    time.Weekday `json:"day"`
	Hour   int          `json:"hour"`
	Minute int          `json:"minute"`
}

// A weekly recurring open interval. A nil Close means the place never closes;
// that is only well-formed for a single period opening Sunday 00:00.
type OpeningPeriod struct {
	Open  OpeningPoint  `json:"open"`
	Close *OpeningPoint `json:"close,omitempty"`
}

type OpeningHours struct {
	Periods             []OpeningPeriod `json:"periods"`
	WeekdayDescriptions []string        `json:"weekdayDescriptions,omitempty"`
}

const BusinessStatusOperational = "OPERATIONAL"

// Place data as fetched from the places library. Optional fields are nil when
// the data source did not provide them.
type Place struct {
	ID                  string
	Name                string
	FormattedAddress    string
	Location            *LatLng
	BusinessStatus      string
	RegularOpeningHours *OpeningHours
	UTCOffsetMinutes    *int
}
