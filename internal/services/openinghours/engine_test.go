package openinghours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maps-extended-service/internal/domain"
)

func pt(d time.Weekday, hour, minute int) domain.OpeningPoint {
	return domain.OpeningPoint{Day: d, Hour: hour, Minute: minute}
}

func period(open domain.OpeningPoint, close domain.OpeningPoint) domain.OpeningPeriod {
	return domain.OpeningPeriod{Open: open, Close: &close}
}

func placeWith(offset *int, periods ...domain.OpeningPeriod) *domain.Place {
	return &domain.Place{
		ID:                  "ChIJ-test",
		RegularOpeningHours: &domain.OpeningHours{Periods: periods},
		UTCOffsetMinutes:    offset,
	}
}

func offset(minutes int) *int { return &minutes }

func utc(month time.Month, d, hour, minute int) time.Time {
	return time.Date(2024, month, d, hour, minute, 0, 0, time.UTC)
}

// 2024-01-07 is a Sunday.
var (
	sunday   = utc(time.January, 7, 0, 0)
	weekdays = []domain.OpeningPeriod{
		period(pt(time.Monday, 9, 0), pt(time.Monday, 17, 0)),
		period(pt(time.Wednesday, 9, 0), pt(time.Wednesday, 17, 0)),
	}
)

func TestOpenDuringRegularPeriod(t *testing.T) {
	place := placeWith(offset(0), period(pt(time.Monday, 9, 0), pt(time.Monday, 17, 0)))
	now := utc(time.January, 8, 10, 0)

	open, known := IsOpen(place, now)
	assert.True(t, known)
	assert.True(t, open)

	next := UpcomingCloseTime(place, now)
	assert.Equal(t, CloseStatusWillClose, next.Status)
	require.NotNil(t, next.ClosePoint)
	assert.Equal(t, pt(time.Monday, 17, 0), *next.ClosePoint)
	assert.WithinDuration(t, utc(time.January, 8, 17, 0), next.CloseTime, 0)

	assert.Equal(t, OpenStatusAlreadyOpen, UpcomingOpenTime(place, now).Status)
}

func TestOpenAcrossWeekWraparound(t *testing.T) {
	place := placeWith(offset(0), period(pt(time.Saturday, 22, 0), pt(time.Sunday, 2, 0)))
	now := utc(time.January, 7, 1, 0)

	current, ok := CurrentPeriod(place.RegularOpeningHours, 0, now)
	require.True(t, ok)
	assert.WithinDuration(t, utc(time.January, 6, 22, 0), current.Open, 0)
	assert.WithinDuration(t, utc(time.January, 7, 2, 0), current.Close, 0)

	open, known := IsOpen(place, now)
	assert.True(t, known)
	assert.True(t, open)
	assert.Equal(t, OpenStatusAlreadyOpen, UpcomingOpenTime(place, now).Status)

	// Saturday night before midnight is the same interval.
	current, ok = CurrentPeriod(place.RegularOpeningHours, 0, utc(time.January, 13, 23, 0))
	require.True(t, ok)
	assert.WithinDuration(t, utc(time.January, 14, 2, 0), current.Close, 0)
}

func TestClosedAfterWraparoundPeriodEnds(t *testing.T) {
	place := placeWith(offset(0), period(pt(time.Saturday, 22, 0), pt(time.Sunday, 2, 0)))
	now := utc(time.January, 7, 3, 0)

	open, _ := IsOpen(place, now)
	assert.False(t, open)
	assert.Equal(t, CloseStatusNotOpenNow, UpcomingCloseTime(place, now).Status)

	next := UpcomingOpenTime(place, now)
	assert.Equal(t, OpenStatusWillOpen, next.Status)
	assert.WithinDuration(t, utc(time.January, 13, 22, 0), next.OpenTime, 0)
}

func TestAlwaysOpen(t *testing.T) {
	place := &domain.Place{
		RegularOpeningHours: &domain.OpeningHours{Periods: []domain.OpeningPeriod{{Open: pt(time.Sunday, 0, 0)}}},
		UTCOffsetMinutes:    offset(0),
	}
	assert.True(t, IsAlwaysOpen(place.RegularOpeningHours))

	for _, now := range []time.Time{sunday, utc(time.March, 13, 4, 30), utc(time.December, 31, 23, 59)} {
		open, known := IsOpen(place, now)
		assert.True(t, known)
		assert.True(t, open)
		assert.Equal(t, CloseStatusAlwaysOpen, UpcomingCloseTime(place, now).Status)
		assert.Equal(t, OpenStatusAlreadyOpen, UpcomingOpenTime(place, now).Status)
	}
}

func TestIsAlwaysOpenRequiresExactShape(t *testing.T) {
	assert.False(t, IsAlwaysOpen(nil))
	assert.False(t, IsAlwaysOpen(&domain.OpeningHours{}))
	assert.False(t, IsAlwaysOpen(&domain.OpeningHours{Periods: []domain.OpeningPeriod{{Open: pt(time.Monday, 0, 0)}}}))
	assert.False(t, IsAlwaysOpen(&domain.OpeningHours{Periods: []domain.OpeningPeriod{
		period(pt(time.Sunday, 0, 0), pt(time.Saturday, 23, 59)),
	}}))
	assert.False(t, IsAlwaysOpen(&domain.OpeningHours{Periods: []domain.OpeningPeriod{
		{Open: pt(time.Sunday, 0, 0)}, {Open: pt(time.Sunday, 0, 0)},
	}}))
}

func TestMissingCloseIsTreatedAsAlwaysOpen(t *testing.T) {
	place := placeWith(offset(0),
		domain.OpeningPeriod{Open: pt(time.Monday, 9, 0)},
		period(pt(time.Tuesday, 9, 0), pt(time.Tuesday, 17, 0)),
	)
	now := utc(time.January, 10, 12, 0)

	assert.Equal(t, CloseStatusAlwaysOpen, UpcomingCloseTime(place, now).Status)
	assert.Equal(t, OpenStatusAlreadyOpen, UpcomingOpenTime(place, now).Status)
}

func TestEmptyPeriods(t *testing.T) {
	place := placeWith(offset(0))
	now := utc(time.January, 8, 10, 0)

	assert.Equal(t, UpcomingOpen{Status: OpenStatusNeverOpen}, UpcomingOpenTime(place, now))
	assert.Equal(t, CloseStatusNotOpenNow, UpcomingCloseTime(place, now).Status)

	open, known := IsOpen(place, now)
	assert.True(t, known)
	assert.False(t, open)
}

func TestMissingDataIsUnknown(t *testing.T) {
	now := utc(time.January, 8, 10, 0)
	noOffset := placeWith(nil, weekdays...)
	noHours := &domain.Place{UTCOffsetMinutes: offset(0)}

	for _, place := range []*domain.Place{nil, noOffset, noHours} {
		assert.Equal(t, CloseStatusUnknown, UpcomingCloseTime(place, now).Status)
		assert.Equal(t, OpenStatusUnknown, UpcomingOpenTime(place, now).Status)
		_, known := IsOpen(place, now)
		assert.False(t, known)
	}
}

func TestUpcomingOpenPicksSoonest(t *testing.T) {
	place := placeWith(offset(0), weekdays...)

	next := UpcomingOpenTime(place, utc(time.January, 8, 18, 0))
	assert.Equal(t, OpenStatusWillOpen, next.Status)
	require.NotNil(t, next.OpenPoint)
	assert.Equal(t, pt(time.Wednesday, 9, 0), *next.OpenPoint)
	assert.WithinDuration(t, utc(time.January, 10, 9, 0), next.OpenTime, 0)

	// After the last period of the week the next opening is in the following week.
	next = UpcomingOpenTime(place, utc(time.January, 10, 18, 0))
	assert.Equal(t, pt(time.Monday, 9, 0), *next.OpenPoint)
	assert.WithinDuration(t, utc(time.January, 15, 9, 0), next.OpenTime, 0)
}

func TestNegativeOffset(t *testing.T) {
	// UTC-7; Monday 09:30 local is 16:30 UTC.
	place := placeWith(offset(-420), period(pt(time.Monday, 9, 0), pt(time.Monday, 17, 0)))
	now := utc(time.January, 8, 16, 30)

	next := UpcomingCloseTime(place, now)
	assert.Equal(t, CloseStatusWillClose, next.Status)
	assert.WithinDuration(t, utc(time.January, 9, 0, 0), next.CloseTime, 0)

	_, zoneOffset := next.CloseTime.Zone()
	assert.Equal(t, -420*60, zoneOffset)

	// 08:30 local is still closed.
	open, _ := IsOpen(place, utc(time.January, 8, 15, 30))
	assert.False(t, open)
}

func TestOffsetPushesSundayAfterNow(t *testing.T) {
	// UTC-10; Sunday 05:00 UTC is still Saturday 19:00 local.
	place := placeWith(offset(-600), period(pt(time.Saturday, 18, 0), pt(time.Saturday, 23, 0)))
	now := utc(time.January, 7, 5, 0)

	next := UpcomingCloseTime(place, now)
	require.Equal(t, CloseStatusWillClose, next.Status)
	assert.WithinDuration(t, utc(time.January, 7, 9, 0), next.CloseTime, 0)
}

func TestOffsetPushesSundayMoreThanAWeekBack(t *testing.T) {
	// UTC+10; Saturday 23:00 UTC is already Sunday 09:00 local.
	place := placeWith(offset(600), period(pt(time.Sunday, 8, 0), pt(time.Sunday, 12, 0)))
	now := utc(time.January, 13, 23, 0)

	next := UpcomingCloseTime(place, now)
	require.Equal(t, CloseStatusWillClose, next.Status)
	assert.WithinDuration(t, utc(time.January, 14, 2, 0), next.CloseTime, 0)
}

func TestFirstMatchingPeriodWins(t *testing.T) {
	place := placeWith(offset(0),
		period(pt(time.Monday, 8, 0), pt(time.Monday, 12, 0)),
		period(pt(time.Monday, 10, 0), pt(time.Monday, 20, 0)),
	)

	current, ok := CurrentPeriod(place.RegularOpeningHours, 0, utc(time.January, 8, 11, 0))
	require.True(t, ok)
	assert.Equal(t, pt(time.Monday, 8, 0), current.Period.Open)
}

func TestIsSoon(t *testing.T) {
	now := utc(time.January, 8, 10, 0)

	assert.True(t, IsSoon(now, now, SoonInterval))
	assert.True(t, IsSoon(now.Add(23*time.Hour), now, SoonInterval))
	assert.False(t, IsSoon(now.Add(24*time.Hour), now, SoonInterval))
	assert.False(t, IsSoon(now.Add(-time.Minute), now, SoonInterval))
	assert.True(t, IsSoon(now.Add(10*time.Minute), now, time.Hour))
}

func TestFormatPointTime(t *testing.T) {
	assert.Equal(t, "9:05 AM", FormatPointTime(pt(time.Monday, 9, 5), false))
	assert.Equal(t, "Mon 9:05 AM", FormatPointTime(pt(time.Monday, 9, 5), true))
	assert.Equal(t, "Sun 5:30 PM", FormatPointTime(pt(time.Sunday, 17, 30), true))
	assert.Equal(t, "Sat 12:00 AM", FormatPointTime(pt(time.Saturday, 0, 0), true))
}

func TestFormatTimeWithWeekdayMaybe(t *testing.T) {
	now := utc(time.January, 8, 10, 0)
	p := pt(time.Monday, 17, 0)

	assert.Equal(t, "5:00 PM", FormatTimeWithWeekdayMaybe(p, utc(time.January, 8, 17, 0), now))
	assert.Equal(t, "Mon 5:00 PM", FormatTimeWithWeekdayMaybe(p, utc(time.January, 15, 17, 0), now))
}

func TestSummarize(t *testing.T) {
	place := placeWith(offset(0), weekdays...)
	place.RegularOpeningHours.WeekdayDescriptions = []string{"Monday: 9:00 AM – 5:00 PM"}

	s, ok := Summarize(place, utc(time.January, 8, 10, 0))
	require.True(t, ok)
	assert.Equal(t, StateOpen, s.State)
	assert.Equal(t, "Open now · Closes 5:00 PM", s.Text)
	require.NotNil(t, s.OpenNow)
	assert.True(t, *s.OpenNow)
	require.NotNil(t, s.NextClose)
	assert.Len(t, s.WeekdayDescriptions, 1)

	s, ok = Summarize(place, utc(time.January, 8, 18, 0))
	require.True(t, ok)
	assert.Equal(t, StateClosed, s.State)
	assert.Equal(t, "Closed · Opens Wed 9:00 AM", s.Text)
	require.NotNil(t, s.NextOpen)

	s, _ = Summarize(place, utc(time.January, 9, 18, 0))
	assert.Equal(t, "Closed · Opens 9:00 AM", s.Text)
}

func TestSummarizeWithoutSchedule(t *testing.T) {
	_, ok := Summarize(nil, sunday)
	assert.False(t, ok)

	_, ok = Summarize(&domain.Place{BusinessStatus: domain.BusinessStatusOperational}, sunday)
	assert.False(t, ok)

	s, ok := Summarize(&domain.Place{BusinessStatus: "CLOSED_TEMPORARILY"}, sunday)
	require.True(t, ok)
	assert.Equal(t, "CLOSED_TEMPORARILY", s.State)

	s, ok = Summarize(placeWith(nil, weekdays...), sunday)
	require.True(t, ok)
	assert.Equal(t, StateUnknown, s.State)
	assert.Nil(t, s.OpenNow)
}

func TestSummarizeAlwaysOpen(t *testing.T) {
	place := &domain.Place{
		RegularOpeningHours: &domain.OpeningHours{Periods: []domain.OpeningPeriod{{Open: pt(time.Sunday, 0, 0)}}},
		UTCOffsetMinutes:    offset(0),
	}
	s, ok := Summarize(place, sunday)
	require.True(t, ok)
	assert.Equal(t, StateAlwaysOpen, s.State)
	assert.Equal(t, "Open 24 hours", s.Text)
}
