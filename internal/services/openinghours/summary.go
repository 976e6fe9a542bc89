package openinghours

import (
	"time"

	"maps-extended-service/internal/domain"
)

const (
	StateOpen       = "OPEN"
	StateClosed     = "CLOSED"
	StateAlwaysOpen = "ALWAYS_OPEN"
	StateUnknown    = "UNKNOWN"
)

// Summary is the one-line opening status of a place.
type Summary struct {
	State               string     `json:"state"`
	Text                string     `json:"text"`
	OpenNow             *bool      `json:"openNow,omitempty"`
	NextClose           *time.Time `json:"nextClose,omitempty"`
	NextOpen            *time.Time `json:"nextOpen,omitempty"`
	WeekdayDescriptions []string   `json:"weekdayDescriptions,omitempty"`
}

// Summarize describes whether place is open at now. It returns false when
// there is nothing worth showing: no place, or an operational place without a
// schedule. A place without a schedule reports its business status instead.
func Summarize(place *domain.Place, now time.Time) (Summary, bool) {
	if place == nil {
		return Summary{}, false
	}

	hours := place.RegularOpeningHours
	if hours == nil {
		if place.BusinessStatus == "" || place.BusinessStatus == domain.BusinessStatusOperational {
			return Summary{}, false
		}
		return Summary{State: place.BusinessStatus, Text: place.BusinessStatus}, true
	}

	s := Summary{WeekdayDescriptions: hours.WeekdayDescriptions}
	open, known := IsOpen(place, now)
	if !known {
		s.State = StateUnknown
		s.Text = "See opening hours"
		return s, true
	}
	s.OpenNow = &open

	if open {
		next := UpcomingCloseTime(place, now)
		switch {
		case next.Status == CloseStatusAlwaysOpen:
			s.State = StateAlwaysOpen
			s.Text = "Open 24 hours"
		case next.Status == CloseStatusWillClose:
			s.State = StateOpen
			s.NextClose = &next.CloseTime
			s.Text = "Open now"
			if IsSoon(next.CloseTime, now, SoonInterval) {
				s.Text += " · Closes " + FormatTimeWithWeekdayMaybe(*next.ClosePoint, next.CloseTime, now)
			}
		default:
			s.State = StateOpen
			s.Text = "Open now"
		}
		return s, true
	}

	s.State = StateClosed
	s.Text = "Closed"
	if next := UpcomingOpenTime(place, now); next.Status == OpenStatusWillOpen {
		s.NextOpen = &next.OpenTime
		s.Text += " · Opens " + FormatTimeWithWeekdayMaybe(*next.OpenPoint, next.OpenTime, now)
	}
	return s, true
}
