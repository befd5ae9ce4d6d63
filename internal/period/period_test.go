package period

import (
	"testing"
	"time"

	"spendcycle/internal/calendar"
	"spendcycle/internal/models"
)

func mustZone(t *testing.T, name string) calendar.Resolver {
	t.Helper()
	cal, err := calendar.New(name)
	if err != nil {
		t.Fatalf("failed to load zone %s: %v", name, err)
	}
	return cal
}

func TestComputeStart(t *testing.T) {
	cal := calendar.UTC()

	tests := []struct {
		name     string
		weekday  int
		from     time.Time
		expected string
	}{
		{"monday_from_wednesday", 1, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), "2025-06-16"},
		{"monday_from_monday", 1, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), "2025-06-16"},
		{"monday_from_sunday", 1, time.Date(2025, 6, 22, 23, 0, 0, 0, time.UTC), "2025-06-16"},
		{"sunday_from_saturday", 0, time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC), "2025-06-15"},
		{"saturday_from_friday", 6, time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC), "2025-06-14"},
		{"friday_from_friday", 5, time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC), "2025-06-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeStart(cal, tt.weekday, tt.from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestComputeStartUsesLocalDate(t *testing.T) {
	// 02:00 UTC on Monday June 16 is still Sunday June 15 in New York, so
	// the most recent Monday there is June 9.
	ny := mustZone(t, "America/New_York")
	from := time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC)

	got, err := ComputeStart(ny, 1, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2025-06-09" {
		t.Errorf("expected 2025-06-09, got %s", got)
	}
}

func TestComputeEnd(t *testing.T) {
	cal := calendar.UTC()

	tests := []struct {
		start    string
		duration int
		expected string
	}{
		{"2025-06-16", 7, "2025-06-22"},
		{"2025-06-16", 14, "2025-06-29"},
		{"2025-06-16", 28, "2025-07-13"},
	}
	for _, tt := range tests {
		got, err := ComputeEnd(cal, tt.start, tt.duration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.expected {
			t.Errorf("ComputeEnd(%s, %d): expected %s, got %s", tt.start, tt.duration, tt.expected, got)
		}
	}
}

func TestNextStart(t *testing.T) {
	cal := calendar.UTC()

	got, err := NextStart(cal, "2025-06-16", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2025-06-23" {
		t.Errorf("expected 2025-06-23, got %s", got)
	}

	// Successor starts the day after the predecessor ends.
	end, err := ComputeEnd(cal, "2025-06-16", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dayAfter, err := cal.AddDays(end, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dayAfter {
		t.Errorf("next start %s should equal end+1 %s", got, dayAfter)
	}
}

func TestClassify(t *testing.T) {
	cal := calendar.UTC()
	start, end := "2025-06-16", "2025-06-22"

	tests := []struct {
		name     string
		now      time.Time
		expected models.PeriodStatus
	}{
		{"before_start", time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), models.PeriodStatusUpcoming},
		{"at_start_boundary", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), models.PeriodStatusActive},
		{"mid_period", time.Date(2025, 6, 19, 12, 0, 0, 0, time.UTC), models.PeriodStatusActive},
		{"last_minute_of_end_date", time.Date(2025, 6, 22, 23, 59, 0, 0, time.UTC), models.PeriodStatusActive},
		{"after_end_boundary", time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), models.PeriodStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(cal, start, end, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGenerateForward(t *testing.T) {
	cal := calendar.UTC()
	cycle := Cycle{StartWeekday: 1, DurationDays: 7}
	from := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) // Wednesday

	periods, err := GenerateForward(cal, cycle, from, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}

	if periods[0].StartDate != "2025-06-16" || periods[0].EndDate != "2025-06-22" {
		t.Errorf("unexpected first period: %+v", periods[0])
	}
	if periods[0].Status != models.PeriodStatusActive {
		t.Errorf("expected first period active, got %s", periods[0].Status)
	}

	for i := 1; i < len(periods); i++ {
		if periods[i].Status != models.PeriodStatusUpcoming {
			t.Errorf("expected period %d upcoming, got %s", i, periods[i].Status)
		}
		dayAfter, err := cal.AddDays(periods[i-1].EndDate, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if periods[i].StartDate != dayAfter {
			t.Errorf("period %d starts %s, expected day after %s", i, periods[i].StartDate, periods[i-1].EndDate)
		}
		if Overlaps(periods[i-1].StartDate, periods[i-1].EndDate, periods[i].StartDate, periods[i].EndDate) {
			t.Errorf("periods %d and %d overlap", i-1, i)
		}
	}
}

func TestGenerateForwardContainsReference(t *testing.T) {
	// Whatever the reference day, the first emitted period must contain it.
	cal := calendar.UTC()
	for _, duration := range []int{7, 10, 14, 28} {
		cycle := Cycle{StartWeekday: 3, DurationDays: duration}
		for day := 0; day < 28; day++ {
			from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day)
			periods, err := GenerateForward(cal, cycle, from, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ok, err := cal.Contains(periods[0].StartDate, periods[0].EndDate, from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Errorf("duration %d: first period [%s, %s] does not contain %s",
					duration, periods[0].StartDate, periods[0].EndDate, cal.FormatDate(from))
			}
		}
	}
}

func TestGenerateRetroactive(t *testing.T) {
	cal := calendar.UTC()
	cycle := Cycle{StartWeekday: 1, DurationDays: 7}

	t.Run("mid_cycle_creation", func(t *testing.T) {
		// Created Wednesday: period walks back to Monday and is active now.
		now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC)
		dates, err := GenerateRetroactive(cal, cycle, now, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dates.StartDate != "2025-06-16" || dates.EndDate != "2025-06-22" {
			t.Errorf("unexpected dates: %+v", dates)
		}
		if dates.Status != models.PeriodStatusActive {
			t.Errorf("expected active, got %s", dates.Status)
		}
	})

	t.Run("anchor_in_prior_cycle", func(t *testing.T) {
		// Anchored two weeks back: the covering period is already over.
		target := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
		now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC)
		dates, err := GenerateRetroactive(cal, cycle, target, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dates.StartDate != "2025-06-02" || dates.EndDate != "2025-06-08" {
			t.Errorf("unexpected dates: %+v", dates)
		}
		if dates.Status != models.PeriodStatusCompleted {
			t.Errorf("expected completed, got %s", dates.Status)
		}
	})
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		expected                   bool
	}{
		{"disjoint", "2025-06-16", "2025-06-22", "2025-06-23", "2025-06-29", false},
		{"identical", "2025-06-16", "2025-06-22", "2025-06-16", "2025-06-22", true},
		{"shared_end_date", "2025-06-16", "2025-06-22", "2025-06-22", "2025-06-28", true},
		{"contained", "2025-06-16", "2025-06-29", "2025-06-18", "2025-06-20", true},
		{"reversed_disjoint", "2025-06-23", "2025-06-29", "2025-06-16", "2025-06-22", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHasOverlap(t *testing.T) {
	existing := []models.BudgetPeriod{
		{StartDate: "2025-06-16", EndDate: "2025-06-22"},
		{StartDate: "2025-06-23", EndDate: "2025-06-29"},
	}

	if !HasOverlap(Dates{StartDate: "2025-06-20", EndDate: "2025-06-26"}, existing) {
		t.Error("expected overlap with existing periods")
	}
	if HasOverlap(Dates{StartDate: "2025-06-30", EndDate: "2025-07-06"}, existing) {
		t.Error("expected no overlap after last period")
	}
	if HasOverlap(Dates{StartDate: "2025-06-30", EndDate: "2025-07-06"}, nil) {
		t.Error("expected no overlap against empty set")
	}
}
