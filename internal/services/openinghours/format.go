package openinghours

import (
	"time"

	"maps-extended-service/internal/domain"
)

// SoonInterval is the default horizon for IsSoon.
const SoonInterval = day

// IsSoon reports whether t is not in the past and less than interval away.
func IsSoon(t, now time.Time, interval time.Duration) bool {
	return !t.Before(now) && t.Sub(now) < interval
}

// A Sunday used to render relative points.
var referenceSunday = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// FormatPointTime renders a weekly point as "3:04 PM", or "Mon 3:04 PM" with
// includeWeekday.
func FormatPointTime(p domain.OpeningPoint, includeWeekday bool) string {
	t := pointTime(p, referenceSunday)
	if includeWeekday {
		return t.Format("Mon 3:04 PM")
	}
	return t.Format("3:04 PM")
}

// FormatTimeWithWeekdayMaybe renders p with its weekday unless at, the instant
// p refers to, is less than a day ahead of now.
func FormatTimeWithWeekdayMaybe(p domain.OpeningPoint, at, now time.Time) string {
	return FormatPointTime(p, !IsSoon(at, now, SoonInterval))
}
