package period

import (
	"strings"
	"time"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// weekdaysBack is the number of teaching days each period reaches behind its end day.
var weekdaysBack = map[Period]int{
	Daily:   0,
	Weekly:  6,
	Monthly: 30,
	Yearly:  365,
}

// Parse maps a raw query value to a Period, returning fallback for empty or unknown input.
func Parse(raw string, fallback Period) Period {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := weekdaysBack[p]; ok {
		return p
	}
	return fallback
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	_, ok := weekdaysBack[p]
	return ok
}

// Range is a resolved, inclusive [Start, End] interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the start as YYYY-MM-DD.
func (r Range) StartDate() string {
	return r.Start.Format(DateLayout)
}

// EndDate returns the end as YYYY-MM-DD.
func (r Range) EndDate() string {
	return r.End.Format(DateLayout)
}

// Contains reports whether t falls inside the range, both ends inclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// FromDate is the calendar day of Start in storage form.
func (r Range) FromDate() time.Time {
	return DateOf(r.Start)
}

// ToDate is the calendar day of End in storage form.
func (r Range) ToDate() time.Time {
	return DateOf(r.End)
}

// Resolve turns a symbolic period plus optional explicit bounds into a concrete range.
// An explicit start is used verbatim. Otherwise the start is found by counting back
// weekdays from the end day. End is always the last millisecond of its day.
func Resolve(p Period, explicitStart, explicitEnd *time.Time, reference time.Time) Range {
	endDay := reference
	if explicitEnd != nil {
		endDay = *explicitEnd
	}
	end := EndOfDay(endDay)

	if explicitStart != nil {
		return Range{Start: *explicitStart, End: end}
	}

	n, ok := weekdaysBack[p]
	if !ok {
		n = weekdaysBack[Daily]
	}
	return Range{Start: StartOfDay(WeekdaysBack(end, n)), End: end}
}

// Trailing returns the range covering the given number of calendar days ending on reference's day.
func Trailing(days int, reference time.Time) Range {
	end := EndOfDay(reference)
	start := StartOfDay(reference).AddDate(0, 0, -(days - 1))
	return Range{Start: start, End: end}
}

// WeekdaysBack steps backward from one day at a time and stops once count
// Monday-to-Friday days have been passed. Saturdays and Sundays are never counted.
func WeekdaysBack(from time.Time, count int) time.Time {
	date := from
	found := 0
	for found < count {
		date = date.AddDate(0, 0, -1)
		if IsWeekday(date) {
			found++
		}
	}
	return date
}

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextWeekday returns the first weekday strictly after t's day, at t's time of day.
func NextWeekday(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for !IsWeekday(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartOfDay returns 00:00:00.000 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DateOf strips the time of day and location, yielding the calendar day as UTC midnight.
// This is the form in which dates are stored and compared.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
// It is negative when b's day precedes a's day.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
