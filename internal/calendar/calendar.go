// Package calendar resolves instants into timezone-local calendar dates and
// day-boundary instants. Every before/after/within comparison in the engine
// goes through a Resolver; stored date strings are never compared to raw
// instants directly.
//
// A Resolver is a value constructed once per logical operation (one sweep
// tick, one request) from the persisted timezone setting, so a concurrent
// setting change cannot produce inconsistent results mid-computation.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical stored form of a calendar date.
const DateLayout = "2006-01-02"

// Resolver performs all date arithmetic in a fixed timezone.
// The zero value is not usable; construct one with New or UTC.
type Resolver struct {
	name string
	loc  *time.Location
}

// New returns a Resolver for the given IANA timezone name.
// An empty name resolves to UTC.
func New(name string) (Resolver, error) {
	if name == "" || name == "UTC" {
		return UTC(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Resolver{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return Resolver{name: name, loc: loc}, nil
}

// UTC returns the default resolver. UTC is an ordinary timezone here, not a
// separate code path.
func UTC() Resolver {
	return Resolver{name: "UTC", loc: time.UTC}
}

// Name returns the IANA name the resolver was built from.
func (r Resolver) Name() string { return r.name }

// Location returns the underlying time.Location.
func (r Resolver) Location() *time.Location { return r.loc }

// Now returns the current instant as perceived in the resolver's timezone.
func (r Resolver) Now() time.Time {
	return time.Now().In(r.loc)
}

// FormatDate returns the local calendar date (YYYY-MM-DD) of an instant.
func (r Resolver) FormatDate(t time.Time) string {
	return t.In(r.loc).Format(DateLayout)
}

// ParseDate interprets a stored date string as a local calendar date,
// returning midnight local time.
func (r Resolver) ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", date, err)
	}
	return t, nil
}

// StartOfDay returns the inclusive lower boundary instant of a local date:
// 00:00:00.000 local time.
func (r Resolver) StartOfDay(date string) (time.Time, error) {
	return r.ParseDate(date)
}

// EndOfDay returns the inclusive upper boundary instant of a local date:
// 23:59:59.999 local time.
func (r Resolver) EndOfDay(date string) (time.Time, error) {
	t, err := r.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return t.AddDate(0, 0, 1).Add(-time.Millisecond), nil
}

// AddDays shifts a local date by a number of calendar days.
func (r Resolver) AddDays(date string, days int) (string, error) {
	t, err := r.ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// Weekday returns the weekday of a local date (Sunday = 0).
func (r Resolver) Weekday(date string) (time.Weekday, error) {
	t, err := r.ParseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// Contains reports whether an instant falls within the inclusive local date
// range [start, end]. The instant is mapped to its local calendar date, so a
// timestamp at 23:30 local on the end date is inside the range regardless of
// what its UTC date would be.
func (r Resolver) Contains(start, end string, t time.Time) (bool, error) {
	if _, err := r.ParseDate(start); err != nil {
		return false, err
	}
	if _, err := r.ParseDate(end); err != nil {
		return false, err
	}
	local := r.FormatDate(t)
	return start <= local && local <= end, nil
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Rounding absorbs the 23- and 25-hour days a DST transition produces.
func (r Resolver) DaysBetween(a, b string) (int, error) {
	ta, err := r.ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := r.ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(math.Round(tb.Sub(ta).Hours() / 24)), nil
}
