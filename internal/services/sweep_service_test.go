package services

import (
	"testing"
	"time"

	"spendcycle/internal/calendar"
	"spendcycle/internal/models"
	"spendcycle/internal/testutil"
	"gorm.io/gorm"
)

func newSweepFixture(t *testing.T, db *gorm.DB) (SweepServicer, BudgetServicer, ExpenseServicer) {
	t.Helper()
	settings := NewSettingsService(db, "UTC")
	periods := NewPeriodService(db, settings)
	budgets := NewBudgetService(db, settings, periods)
	expenses := NewExpenseService(db, settings, periods, budgets)
	sweeps := NewSweepService(db, settings, budgets, periods, expenses)
	return sweeps, budgets, expenses
}

func TestReclassifyAll(t *testing.T) {
	t.Run("expired_period_completes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		p := testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -8), dateFromToday(t, -2), models.PeriodStatusActive)

		cal := calendar.UTC()
		completed, writes, err := sweeps.ReclassifyAll(cal, time.Now().UTC())
		testutil.AssertNoError(t, err)

		if writes != 1 {
			t.Errorf("expected 1 write, got %d", writes)
		}
		if len(completed) != 1 || completed[0].ID != p.ID {
			t.Fatalf("expected period %s reported completed, got %+v", p.ID, completed)
		}

		var got models.BudgetPeriod
		db.First(&got, "id = ?", p.ID)
		if got.Status != models.PeriodStatusCompleted {
			t.Errorf("expected completed, got %s", got.Status)
		}
	})

	t.Run("upcoming_period_activates_without_being_reported", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		p := testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -1), dateFromToday(t, 5), models.PeriodStatusUpcoming)

		cal := calendar.UTC()
		completed, writes, err := sweeps.ReclassifyAll(cal, time.Now().UTC())
		testutil.AssertNoError(t, err)

		if writes != 1 {
			t.Errorf("expected 1 write, got %d", writes)
		}
		if len(completed) != 0 {
			t.Errorf("activation must not be reported as completion: %+v", completed)
		}

		var got models.BudgetPeriod
		db.First(&got, "id = ?", p.ID)
		if got.Status != models.PeriodStatusActive {
			t.Errorf("expected active, got %s", got.Status)
		}
	})

	t.Run("second_pass_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -8), dateFromToday(t, -2), models.PeriodStatusActive)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -1), dateFromToday(t, 5), models.PeriodStatusActive)

		cal := calendar.UTC()
		now := time.Now().UTC()
		_, writes, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)
		if writes != 1 {
			t.Errorf("expected 1 write on first pass, got %d", writes)
		}

		completed, writes, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)
		if writes != 0 || len(completed) != 0 {
			t.Errorf("expected idempotent second pass, got %d writes and %d completions", writes, len(completed))
		}
	})
}

func TestContinueCycles(t *testing.T) {
	t.Run("continuation_starts_day_after_previous_end", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)

		cal := calendar.UTC()
		now := time.Now().UTC()
		completed, _, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)

		transitioned, continued, _, err := sweeps.ContinueCycles(cal, now, completed)
		testutil.AssertNoError(t, err)
		if transitioned != 0 || continued != 1 {
			t.Errorf("expected 1 continuation, got transitioned=%d continued=%d", transitioned, continued)
		}

		var successor models.BudgetPeriod
		err = db.Where("budget_id = ? AND status = ?", budget.ID, models.PeriodStatusActive).First(&successor).Error
		if err != nil {
			t.Fatalf("expected a new active period: %v", err)
		}
		if successor.StartDate != dateFromToday(t, 0) {
			t.Errorf("expected successor to start today (%s), got %s", dateFromToday(t, 0), successor.StartDate)
		}
		if successor.EndDate != dateFromToday(t, 6) {
			t.Errorf("expected successor to end %s, got %s", dateFromToday(t, 6), successor.EndDate)
		}
	})

	t.Run("vacation_mode_does_not_pause_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, budgets, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)
		_, err := budgets.SetVacationMode(budget.ID, true)
		testutil.AssertNoError(t, err)

		cal := calendar.UTC()
		now := time.Now().UTC()
		completed, _, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)

		_, continued, _, err := sweeps.ContinueCycles(cal, now, completed)
		testutil.AssertNoError(t, err)
		if continued != 1 {
			t.Errorf("expected continuation despite vacation mode, got %d", continued)
		}
	})

	t.Run("upcoming_budget_takes_over", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, budgets, _ := newSweepFixture(t, db)
		old := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, old, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)
		next := testutil.CreateTestBudget(t, db)
		_, err := budgets.ScheduleUpcomingBudget(next.ID)
		testutil.AssertNoError(t, err)

		cal := calendar.UTC()
		now := time.Now().UTC()
		completed, _, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)

		transitioned, continued, _, err := sweeps.ContinueCycles(cal, now, completed)
		testutil.AssertNoError(t, err)
		if transitioned != 1 || continued != 0 {
			t.Errorf("expected 1 transition, got transitioned=%d continued=%d", transitioned, continued)
		}

		var gotOld, gotNext models.Budget
		db.First(&gotOld, "id = ?", old.ID)
		db.First(&gotNext, "id = ?", next.ID)
		if gotOld.IsActive {
			t.Error("expected outgoing budget deactivated")
		}
		if !gotNext.IsActive || gotNext.IsUpcoming {
			t.Errorf("expected incoming budget active and no longer upcoming, got active=%v upcoming=%v",
				gotNext.IsActive, gotNext.IsUpcoming)
		}

		var p models.BudgetPeriod
		if err := db.First(&p, "budget_id = ?", next.ID).Error; err != nil {
			t.Fatalf("expected a period for the incoming budget: %v", err)
		}
		ok, err := cal.Contains(p.StartDate, p.EndDate, now)
		testutil.AssertNoError(t, err)
		if !ok || p.Status != models.PeriodStatusActive {
			t.Errorf("expected an active period containing now, got [%s, %s] %s", p.StartDate, p.EndDate, p.Status)
		}
	})

	t.Run("inactive_budget_not_continued", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)

		cal := calendar.UTC()
		now := time.Now().UTC()
		completed, _, err := sweeps.ReclassifyAll(cal, now)
		testutil.AssertNoError(t, err)

		transitioned, continued, recovered, err := sweeps.ContinueCycles(cal, now, completed)
		testutil.AssertNoError(t, err)
		if transitioned != 0 || continued != 0 || recovered != 0 {
			t.Errorf("expected nothing for inactive budget, got %d/%d/%d", transitioned, continued, recovered)
		}

		var count int64
		db.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected no new period, got %d total", count)
		}
	})

	t.Run("recovers_active_budget_without_periods", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)

		cal := calendar.UTC()
		now := time.Now().UTC()
		_, _, recovered, err := sweeps.ContinueCycles(cal, now, nil)
		testutil.AssertNoError(t, err)
		if recovered != 1 {
			t.Errorf("expected 1 recovery, got %d", recovered)
		}

		var p models.BudgetPeriod
		if err := db.First(&p, "budget_id = ?", budget.ID).Error; err != nil {
			t.Fatalf("expected a recovered period: %v", err)
		}
		ok, err := cal.Contains(p.StartDate, p.EndDate, now)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Errorf("recovered period [%s, %s] does not contain now", p.StartDate, p.EndDate)
		}
	})
}

func TestReconcileOrphans(t *testing.T) {
	t.Run("backfills_matching_orphans", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		p := testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -2), dateFromToday(t, 4), models.PeriodStatusActive)
		orphan := testutil.CreateTestExpense(t, db, time.Now().UTC(), nil)
		stranger := testutil.CreateTestExpense(t, db, time.Now().UTC().AddDate(0, 0, -30), nil)

		cal := calendar.UTC()
		associated, err := sweeps.ReconcileOrphans(cal)
		testutil.AssertNoError(t, err)
		if associated != 1 {
			t.Errorf("expected 1 association, got %d", associated)
		}

		var linked models.Expense
		db.First(&linked, "id = ?", orphan.ID)
		if linked.BudgetPeriodID == nil || *linked.BudgetPeriodID != p.ID {
			t.Errorf("expected orphan linked to %s, got %v", p.ID, linked.BudgetPeriodID)
		}

		// A fresh destination each lookup: gorm folds a populated primary
		// key into the WHERE clause of the next query.
		var unmatched models.Expense
		db.First(&unmatched, "id = ?", stranger.ID)
		if unmatched.BudgetPeriodID != nil {
			t.Error("expected unmatched expense to stay orphaned")
		}
	})

	t.Run("vacation_budget_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, budgets, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -2), dateFromToday(t, 4), models.PeriodStatusActive)
		orphan := testutil.CreateTestExpense(t, db, time.Now().UTC(), nil)
		_, err := budgets.SetVacationMode(budget.ID, true)
		testutil.AssertNoError(t, err)

		cal := calendar.UTC()
		associated, err := sweeps.ReconcileOrphans(cal)
		testutil.AssertNoError(t, err)
		if associated != 0 {
			t.Errorf("expected no associations during vacation, got %d", associated)
		}

		// Ending vacation lets the next sweep pick the orphan up.
		_, err = budgets.SetVacationMode(budget.ID, false)
		testutil.AssertNoError(t, err)

		associated, err = sweeps.ReconcileOrphans(cal)
		testutil.AssertNoError(t, err)
		if associated != 1 {
			t.Errorf("expected orphan reconciled after vacation, got %d", associated)
		}

		var got models.Expense
		db.First(&got, "id = ?", orphan.ID)
		if got.BudgetPeriodID == nil {
			t.Error("expected orphan reconciled after vacation ended")
		}
	})
}

func TestRunSweep(t *testing.T) {
	t.Run("full_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)
		testutil.CreateTestExpense(t, db, time.Now().UTC(), nil)

		result := sweeps.RunSweep()

		if result.Reclassified != 1 {
			t.Errorf("expected 1 reclassification, got %d", result.Reclassified)
		}
		if result.Continued != 1 {
			t.Errorf("expected 1 continuation, got %d", result.Continued)
		}
		if result.Associated != 1 {
			t.Errorf("expected 1 association, got %d", result.Associated)
		}
	})

	t.Run("second_run_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sweeps, _, _ := newSweepFixture(t, db)
		budget := testutil.CreateActiveTestBudget(t, db)
		testutil.CreateTestPeriod(t, db, budget, dateFromToday(t, -7), dateFromToday(t, -1), models.PeriodStatusActive)

		sweeps.RunSweep()
		second := sweeps.RunSweep()

		if second != (SweepResult{}) {
			t.Errorf("expected no-op second sweep, got %+v", second)
		}

		var count int64
		db.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budget.ID).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 periods total, got %d", count)
		}
	})
}
