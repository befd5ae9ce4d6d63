// Package period is the pure function layer of the budget cycle engine:
// computing period boundaries from a cycle definition, generating forward
// sequences, deriving retroactive periods, advancing a cycle by one
// duration, and classifying a period's lifecycle status against "now".
// Nothing here touches storage; callers persist the results.
package period

import (
	"time"

	"spendcycle/internal/calendar"
	"spendcycle/internal/models"
)

// Cycle is a budget's recurrence rule.
type Cycle struct {
	StartWeekday int // 0 = Sunday .. 6 = Saturday
	DurationDays int // 7..28 inclusive
}

// Dates holds a generated period's inclusive boundaries and initial status.
type Dates struct {
	StartDate string
	EndDate   string
	Status    models.PeriodStatus
}

// ComputeStart finds the most recent occurrence of the cycle's start weekday
// on or before the instant's local calendar date. If the instant already
// falls on the target weekday, that date is the start.
func ComputeStart(cal calendar.Resolver, startWeekday int, from time.Time) (string, error) {
	date := cal.FormatDate(from)
	wd, err := cal.Weekday(date)
	if err != nil {
		return "", err
	}
	daysBack := (int(wd) - startWeekday + 7) % 7
	return cal.AddDays(date, -daysBack)
}

// ComputeEnd returns the inclusive end date: start + durationDays - 1.
func ComputeEnd(cal calendar.Resolver, startDate string, durationDays int) (string, error) {
	return cal.AddDays(startDate, durationDays-1)
}

// NextStart advances a period's start by one full duration. Continuation
// uses this instead of re-deriving from the weekday rule, so the cycle
// keeps its phase even if a timezone change would pick a different anchor.
func NextStart(cal calendar.Resolver, startDate string, durationDays int) (string, error) {
	return cal.AddDays(startDate, durationDays)
}

// Classify derives a period's lifecycle status from a single "now" instant:
// before the start boundary it is upcoming, past the end boundary it is
// completed, otherwise active.
func Classify(cal calendar.Resolver, startDate, endDate string, now time.Time) (models.PeriodStatus, error) {
	start, err := cal.StartOfDay(startDate)
	if err != nil {
		return "", err
	}
	end, err := cal.EndOfDay(endDate)
	if err != nil {
		return "", err
	}
	switch {
	case now.Before(start):
		return models.PeriodStatusUpcoming, nil
	case now.After(end):
		return models.PeriodStatusCompleted, nil
	default:
		return models.PeriodStatusActive, nil
	}
}

// GenerateForward computes the first period containing (or starting after)
// the reference instant and emits count consecutive non-overlapping periods,
// stepping one duration at a time. The first emitted period is active, the
// rest upcoming.
//
// When the reference weekday is mid-cycle and the duration does not align,
// the naively computed first period can end before the reference instant;
// in that case the start advances by one full duration so the first emitted
// period always contains the instant or begins after it.
func GenerateForward(cal calendar.Resolver, cycle Cycle, from time.Time, count int) ([]Dates, error) {
	start, err := ComputeStart(cal, cycle.StartWeekday, from)
	if err != nil {
		return nil, err
	}
	end, err := ComputeEnd(cal, start, cycle.DurationDays)
	if err != nil {
		return nil, err
	}

	endBoundary, err := cal.EndOfDay(end)
	if err != nil {
		return nil, err
	}
	if from.After(endBoundary) {
		if start, err = cal.AddDays(start, cycle.DurationDays); err != nil {
			return nil, err
		}
		if end, err = ComputeEnd(cal, start, cycle.DurationDays); err != nil {
			return nil, err
		}
	}

	periods := make([]Dates, 0, count)
	for i := 0; i < count; i++ {
		status := models.PeriodStatusUpcoming
		if i == 0 {
			status = models.PeriodStatusActive
		}
		periods = append(periods, Dates{StartDate: start, EndDate: end, Status: status})

		if start, err = NextStart(cal, start, cycle.DurationDays); err != nil {
			return nil, err
		}
		if end, err = ComputeEnd(cal, start, cycle.DurationDays); err != nil {
			return nil, err
		}
	}
	return periods, nil
}

// GenerateRetroactive computes the single period covering the target
// instant, with status classified against now rather than the target. A
// budget created mid-cycle with no active predecessor gets a period that
// legitimately starts in the past and captures prior unassociated expenses.
// Anchors more than one cycle in the past are not backfilled; the sweep's
// recovery step opens a current period on its next run.
func GenerateRetroactive(cal calendar.Resolver, cycle Cycle, target, now time.Time) (Dates, error) {
	start, err := ComputeStart(cal, cycle.StartWeekday, target)
	if err != nil {
		return Dates{}, err
	}
	end, err := ComputeEnd(cal, start, cycle.DurationDays)
	if err != nil {
		return Dates{}, err
	}
	status, err := Classify(cal, start, end, now)
	if err != nil {
		return Dates{}, err
	}
	return Dates{StartDate: start, EndDate: end, Status: status}, nil
}

// Overlaps reports whether two inclusive date ranges intersect.
// Lexicographic comparison is exact for YYYY-MM-DD strings.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && aEnd >= bStart
}

// HasOverlap reports whether the candidate range intersects any existing
// period. Consulted before persisting any generated period outside the
// continuation path; continuation is overlap-safe by construction.
func HasOverlap(candidate Dates, existing []models.BudgetPeriod) bool {
	for _, p := range existing {
		if Overlaps(candidate.StartDate, candidate.EndDate, p.StartDate, p.EndDate) {
			return true
		}
	}
	return false
}
