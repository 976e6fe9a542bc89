// Package openinghours computes open and close instants from a place's weekly
// schedule and UTC offset. Every function is pure; missing or partial data
// yields an unknown status instead of an error.
//
// Exceptional hours (holidays) and business status are not taken into account.
package openinghours

import (
	"time"

	"maps-extended-service/internal/domain"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

type CloseStatus int

const (
	CloseStatusUnknown CloseStatus = iota
	CloseStatusAlwaysOpen
	CloseStatusNotOpenNow
	CloseStatusWillClose
)

func (s CloseStatus) String() string {
	switch s {
	case CloseStatusAlwaysOpen:
		return "ALWAYS_OPEN"
	case CloseStatusNotOpenNow:
		return "NOT_OPEN_NOW"
	case CloseStatusWillClose:
		return "WILL_CLOSE"
	default:
		return "UNKNOWN"
	}
}

type OpenStatus int

const (
	OpenStatusUnknown OpenStatus = iota
	OpenStatusNeverOpen
	OpenStatusAlreadyOpen
	OpenStatusWillOpen
)

func (s OpenStatus) String() string {
	switch s {
	case OpenStatusNeverOpen:
		return "NEVER_OPEN"
	case OpenStatusAlreadyOpen:
		return "ALREADY_OPEN"
	case OpenStatusWillOpen:
		return "WILL_OPEN"
	default:
		return "UNKNOWN"
	}
}

// UpcomingClose is the next close of a place. CloseTime and ClosePoint are set
// only with CloseStatusWillClose.
type UpcomingClose struct {
	Status     CloseStatus
	CloseTime  time.Time
	ClosePoint *domain.OpeningPoint
}

// UpcomingOpen is the next opening of a place. OpenTime and OpenPoint are set
// only with OpenStatusWillOpen.
type UpcomingOpen struct {
	Status    OpenStatus
	OpenTime  time.Time
	OpenPoint *domain.OpeningPoint
}

// ActivePeriod is a period anchored to absolute instants. Close is zero when
// the period has no close point.
type ActivePeriod struct {
	Period domain.OpeningPeriod
	Open   time.Time
	Close  time.Time
}

// IsAlwaysOpen reports whether the schedule is the single "open Sunday 00:00,
// never closes" period.
func IsAlwaysOpen(hours *domain.OpeningHours) bool {
	if hours == nil || len(hours.Periods) != 1 {
		return false
	}
	p := hours.Periods[0]
	return p.Close == nil && p.Open.Day == time.Sunday && p.Open.Hour == 0 && p.Open.Minute == 0
}

// lastSundayStart returns the most recent Sunday 00:00 in the place's local
// time that is not after now.
func lastSundayStart(now time.Time, utcOffsetMinutes int) time.Time {
	u := now.UTC()
	sunday := time.Date(u.Year(), u.Month(), u.Day()-int(u.Weekday()), 0, 0, 0, 0, time.UTC)
	start := sunday.Add(-time.Duration(utcOffsetMinutes) * time.Minute)

	// The offset can push the start past now or more than a week before it.
	switch delta := now.Sub(start); {
	case delta < 0:
		start = start.Add(-week)
	case delta >= week:
		start = start.Add(week)
	}

	return start.In(placeZone(utcOffsetMinutes))
}

func placeZone(utcOffsetMinutes int) *time.Location {
	return time.FixedZone("", utcOffsetMinutes*60)
}

func pointTime(p domain.OpeningPoint, sunday time.Time) time.Time {
	return sunday.Add(time.Duration(p.Day)*day + time.Duration(p.Hour)*time.Hour + time.Duration(p.Minute)*time.Minute)
}

// CurrentPeriod returns the first period, in schedule order, whose interval
// contains now. A period without a close point is returned as soon as it is
// reached.
func CurrentPeriod(hours *domain.OpeningHours, utcOffsetMinutes int, now time.Time) (ActivePeriod, bool) {
	if hours == nil {
		return ActivePeriod{}, false
	}

	sunday := lastSundayStart(now, utcOffsetMinutes)
	for _, period := range hours.Periods {
		active := ActivePeriod{Period: period, Open: pointTime(period.Open, sunday)}
		if period.Close == nil {
			return active, true
		}
		active.Close = pointTime(*period.Close, sunday)

		// A close before the open wraps past the end of the week.
		if active.Close.Before(active.Open) {
			if active.Open.After(now) {
				active.Open = active.Open.Add(-week)
			} else {
				active.Close = active.Close.Add(week)
			}
		}

		if !now.Before(active.Open) && now.Before(active.Close) {
			return active, true
		}
	}

	return ActivePeriod{}, false
}

func hasSchedule(place *domain.Place) bool {
	return place != nil && place.RegularOpeningHours != nil && place.UTCOffsetMinutes != nil
}

// UpcomingCloseTime returns when the place next closes.
func UpcomingCloseTime(place *domain.Place, now time.Time) UpcomingClose {
	if !hasSchedule(place) {
		return UpcomingClose{Status: CloseStatusUnknown}
	}
	if IsAlwaysOpen(place.RegularOpeningHours) {
		return UpcomingClose{Status: CloseStatusAlwaysOpen}
	}

	current, ok := CurrentPeriod(place.RegularOpeningHours, *place.UTCOffsetMinutes, now)
	if !ok {
		return UpcomingClose{Status: CloseStatusNotOpenNow}
	}
	if current.Period.Close == nil {
		// Malformed data; a true 24/7 schedule is caught by IsAlwaysOpen.
		return UpcomingClose{Status: CloseStatusAlwaysOpen}
	}

	closePoint := *current.Period.Close
	return UpcomingClose{
		Status:     CloseStatusWillClose,
		CloseTime:  current.Close,
		ClosePoint: &closePoint,
	}
}

// UpcomingOpenTime returns the soonest future opening, or OpenStatusAlreadyOpen
// when some period covers now.
func UpcomingOpenTime(place *domain.Place, now time.Time) UpcomingOpen {
	if !hasSchedule(place) {
		return UpcomingOpen{Status: OpenStatusUnknown}
	}
	if IsAlwaysOpen(place.RegularOpeningHours) {
		return UpcomingOpen{Status: OpenStatusAlreadyOpen}
	}

	sunday := lastSundayStart(now, *place.UTCOffsetMinutes)
	best := UpcomingOpen{Status: OpenStatusNeverOpen}
	var bestWait time.Duration

	for _, period := range place.RegularOpeningHours.Periods {
		if period.Close == nil {
			return UpcomingOpen{Status: OpenStatusAlreadyOpen}
		}
		open := pointTime(period.Open, sunday)
		closing := pointTime(*period.Close, sunday)

		if !closing.Before(open) {
			if !now.Before(open) && now.Before(closing) {
				return UpcomingOpen{Status: OpenStatusAlreadyOpen}
			}
		} else if now.Before(closing) || !now.Before(open) {
			// Wrapping period: closed only between its close and its open.
			return UpcomingOpen{Status: OpenStatusAlreadyOpen}
		}

		if open.Before(now) {
			open = open.Add(week)
		}

		wait := open.Sub(now)
		if best.Status != OpenStatusWillOpen || wait < bestWait {
			openPoint := period.Open
			bestWait = wait
			best = UpcomingOpen{Status: OpenStatusWillOpen, OpenTime: open, OpenPoint: &openPoint}
		}
	}

	return best
}

// IsOpen reports whether the place is open at now. known is false when the
// schedule or the UTC offset is missing.
func IsOpen(place *domain.Place, now time.Time) (open, known bool) {
	if !hasSchedule(place) {
		return false, false
	}
	if IsAlwaysOpen(place.RegularOpeningHours) {
		return true, true
	}
	_, open = CurrentPeriod(place.RegularOpeningHours, *place.UTCOffsetMinutes, now)
	return open, true
}
