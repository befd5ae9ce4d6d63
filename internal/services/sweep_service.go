package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"spendcycle/internal/calendar"
	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/logger"
	"spendcycle/internal/models"
	"spendcycle/internal/period"
)

// sweepService is the continuation & transition engine. One sweep
// reclassifies every period, continues or transitions budgets whose current
// period just completed, recovers an active budget left with no open
// period, and reconciles orphan expenses.
type sweepService struct {
	db       *gorm.DB
	settings SettingsServicer
	budgets  BudgetServicer
	periods  PeriodServicer
	expenses ExpenseServicer
}

// NewSweepService creates a new SweepServicer.
func NewSweepService(db *gorm.DB, settings SettingsServicer, budgets BudgetServicer, periods PeriodServicer, expenses ExpenseServicer) SweepServicer {
	return &sweepService{db: db, settings: settings, budgets: budgets, periods: periods, expenses: expenses}
}

// RunSweep executes the four sweep steps. The timezone and "now" are
// resolved exactly once so every period sees the same instant. Each step is
// isolated: a store failure in one is logged and the remaining steps still
// run; the next scheduled sweep retries from scratch, which is safe because
// generation is guarded by the overlap check and the open-period count.
func (s *sweepService) RunSweep() SweepResult {
	log := logger.Get()
	var result SweepResult

	cal, err := s.settings.Resolver()
	if err != nil {
		log.Errorw("sweep aborted: cannot resolve timezone", "error", err)
		return result
	}
	now := cal.Now()

	completed, reclassified, err := s.ReclassifyAll(cal, now)
	result.Reclassified = reclassified
	if err != nil {
		log.Errorw("sweep: reclassification incomplete", "error", err)
	}

	transitioned, continued, recovered, err := s.ContinueCycles(cal, now, completed)
	result.Transitioned = transitioned
	result.Continued = continued
	result.Recovered = recovered
	if err != nil {
		log.Errorw("sweep: continuation incomplete", "error", err)
	}

	associated, err := s.ReconcileOrphans(cal)
	result.Associated = associated
	if err != nil {
		log.Errorw("sweep: reconciliation incomplete", "error", err)
	}

	if result != (SweepResult{}) {
		log.Infow("sweep completed",
			"reclassified", result.Reclassified,
			"transitioned", result.Transitioned,
			"continued", result.Continued,
			"recovered", result.Recovered,
			"associated", result.Associated,
		)
	}
	return result
}

// ReclassifyAll derives every non-completed period's status from the single
// sweep instant and persists only actual changes, keeping the sweep
// idempotent. It returns the periods that transitioned to completed within
// this pass and the number of writes performed. Statuses never move
// backwards.
func (s *sweepService) ReclassifyAll(cal calendar.Resolver, now time.Time) ([]models.BudgetPeriod, int, error) {
	var open []models.BudgetPeriod
	err := s.db.Where("status <> ?", models.PeriodStatusCompleted).Find(&open).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var completed []models.BudgetPeriod
	writes := 0
	var firstErr error
	for i := range open {
		p := &open[i]
		status, cErr := period.Classify(cal, p.StartDate, p.EndDate, now)
		if cErr != nil {
			if firstErr == nil {
				firstErr = cErr
			}
			continue
		}
		if status == p.Status || status.Rank() < p.Status.Rank() {
			continue
		}
		if uErr := s.db.Model(p).Update("status", status).Error; uErr != nil {
			if firstErr == nil {
				firstErr = apperrors.Wrap(apperrors.ErrInternalServer, uErr)
			}
			continue
		}
		p.Status = status
		writes++
		if status == models.PeriodStatusCompleted {
			completed = append(completed, *p)
		}
	}
	return completed, writes, firstErr
}

// ContinueCycles handles every period that completed within this sweep:
// an inactive budget gets nothing, a scheduled upcoming budget takes over
// the active slot, and otherwise the same budget's cycle is advanced by one
// duration. Vacation mode never suppresses generation; the cycle must keep
// ticking so that unpausing resumes seamlessly. A final recovery pass opens
// a period for an active budget that has none active or upcoming, which
// heals missed sweeps and cold starts after downtime.
func (s *sweepService) ContinueCycles(cal calendar.Resolver, now time.Time, completed []models.BudgetPeriod) (int, int, int, error) {
	log := logger.Get()
	transitioned, continued, recovered := 0, 0, 0
	var firstErr error

	for i := range completed {
		p := completed[i]
		budget, err := s.budgets.GetBudgetByID(p.BudgetID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !budget.IsActive {
			continue
		}

		upcoming, err := s.budgets.GetUpcomingBudget()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if upcoming != nil {
			// The only path that changes which budget is active.
			err = s.db.Transaction(func(tx *gorm.DB) error {
				return activateBudgetTx(tx, cal, now, upcoming)
			})
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			log.Infow("budget transition",
				"from", budget.ID, "to", upcoming.ID, "period_completed", p.ID)
			transitioned++
			continue
		}

		if err := s.continueBudget(cal, now, budget); err != nil {
			if errors.Is(err, apperrors.ErrPeriodOverlap) {
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		continued++
	}

	n, err := s.recoverActiveBudget(cal, now)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	recovered += n

	return transitioned, continued, recovered, firstErr
}

// continueBudget advances a budget's cycle by exactly one duration from its
// latest period. NextStart preserves the cycle phase; the weekday rule is
// never re-derived here, so a timezone change cannot shift the anchor
// mid-cycle.
func (s *sweepService) continueBudget(cal calendar.Resolver, now time.Time, budget *models.Budget) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		open, err := countOpenPeriods(tx, budget.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return nil
		}

		var latest models.BudgetPeriod
		err = tx.Where("budget_id = ?", budget.ID).Order("start_date DESC").First(&latest).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		start, err := period.NextStart(cal, latest.StartDate, budget.DurationDays)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		end, err := period.ComputeEnd(cal, start, budget.DurationDays)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		status, err := period.Classify(cal, start, end, now)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		_, err = createPeriodTx(tx, budget, period.Dates{StartDate: start, EndDate: end, Status: status})
		return err
	})
}

// recoverActiveBudget opens a period starting now for the active budget if
// it somehow has zero active or upcoming periods. Defense in depth against
// missed sweeps and extended downtime, independent of the completion path.
func (s *sweepService) recoverActiveBudget(cal calendar.Resolver, now time.Time) (int, error) {
	active, err := s.budgets.GetActiveBudget()
	if err != nil || active == nil {
		return 0, err
	}

	recovered := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		open, txErr := countOpenPeriods(tx, active.ID)
		if txErr != nil {
			return txErr
		}
		if open > 0 {
			return nil
		}

		cycle := period.Cycle{StartWeekday: active.StartWeekday, DurationDays: active.DurationDays}
		generated, txErr := period.GenerateForward(cal, cycle, now, 1)
		if txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if _, txErr = createPeriodTx(tx, active, generated[0]); txErr != nil {
			return txErr
		}
		recovered = 1
		return nil
	})
	if errors.Is(err, apperrors.ErrPeriodOverlap) {
		logger.Get().Warnw("recovery skipped: generated period overlaps history", "budget", active.ID)
		return 0, nil
	}
	return recovered, err
}

// ReconcileOrphans associates expenses lacking a period reference with the
// period whose local date range contains their timestamp. Budgets in
// vacation mode are skipped; their orphans are re-evaluated on every future
// sweep and self-heal once vacation mode ends. Expenses matching no period
// stay orphaned.
func (s *sweepService) ReconcileOrphans(cal calendar.Resolver) (int, error) {
	orphans, err := s.expenses.OrphanExpenses()
	if err != nil {
		return 0, err
	}

	associated := 0
	var firstErr error
	for i := range orphans {
		e := orphans[i]
		localDate := cal.FormatDate(e.OccurredAt)

		var match models.BudgetPeriod
		err := s.db.
			Joins("JOIN budgets ON budgets.id = budget_periods.budget_id AND budgets.deleted_at IS NULL").
			Where("budget_periods.start_date <= ? AND budget_periods.end_date >= ?", localDate, localDate).
			Order("budgets.is_active DESC, budget_periods.start_date DESC").
			First(&match).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if firstErr == nil {
				firstErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			continue
		}

		var vacation bool
		err = s.db.Model(&models.Budget{}).Select("vacation_mode").Where("id = ?", match.BudgetID).Scan(&vacation).Error
		if err != nil {
			if firstErr == nil {
				firstErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			continue
		}
		if vacation {
			continue
		}

		if err := s.expenses.AssociateWithPeriod(e.ID, match.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		associated++
	}
	return associated, firstErr
}
