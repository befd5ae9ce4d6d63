package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendcycle/internal/calendar"
	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/models"
	"spendcycle/internal/pagination"
	"spendcycle/internal/period"
)

// budgetService handles budget lifecycle logic.
type budgetService struct {
	db       *gorm.DB
	settings SettingsServicer
	periods  PeriodServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, settings SettingsServicer, periods PeriodServicer) BudgetServicer {
	return &budgetService{db: db, settings: settings, periods: periods}
}

// validateCycle rejects bad cycle parameters before any persistence.
func validateCycle(name string, amount decimal.Decimal, startWeekday, durationDays int) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be blank")
	}
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if startWeekday < 0 || startWeekday > 6 {
		return apperrors.ErrInvalidWeekday
	}
	if durationDays < 7 || durationDays > 28 {
		return apperrors.ErrInvalidDuration
	}
	return nil
}

// CreateBudget creates a new budget. When no budget is currently active the
// new one becomes active immediately and receives its initial period:
// forward from now, or, with retroactive set, the single period covering
// the anchor instant (now when no anchor is given) classified against now.
// A retroactive period may start in the past and capture pre-existing
// orphan expenses; anchors older than one cycle are not backfilled. When an
// active budget already exists the new budget is created as a draft with no
// periods.
func (s *budgetService) CreateBudget(name string, amount decimal.Decimal, startWeekday, durationDays int, retroactive bool, anchor *time.Time) (*models.Budget, error) {
	if err := validateCycle(name, amount, startWeekday, durationDays); err != nil {
		return nil, err
	}

	cal, err := s.settings.Resolver()
	if err != nil {
		return nil, err
	}
	now := cal.Now()

	budget := &models.Budget{
		Name:         strings.TrimSpace(name),
		Amount:       amount,
		StartWeekday: startWeekday,
		DurationDays: durationDays,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		active, txErr := getFlaggedBudget(tx, "is_active")
		if txErr != nil {
			return txErr
		}

		if active == nil {
			budget.IsActive = true
		}
		if txErr := tx.Create(budget).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if active != nil {
			return nil
		}

		cycle := period.Cycle{StartWeekday: startWeekday, DurationDays: durationDays}
		var dates period.Dates
		if retroactive {
			target := now
			if anchor != nil {
				target = *anchor
			}
			dates, txErr = period.GenerateRetroactive(cal, cycle, target, now)
			if txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		} else {
			generated, genErr := period.GenerateForward(cal, cycle, now, 1)
			if genErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, genErr)
			}
			dates = generated[0]
		}

		_, txErr = createPeriodTx(tx, budget, dates)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// ListBudgets returns a paginated list of budgets, newest first.
func (s *budgetService) ListBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetActiveBudget returns the single active budget, or nil when none exists.
func (s *budgetService) GetActiveBudget() (*models.Budget, error) {
	return getFlaggedBudget(s.db, "is_active")
}

// GetUpcomingBudget returns the budget scheduled as upcoming, or nil.
func (s *budgetService) GetUpcomingBudget() (*models.Budget, error) {
	return getFlaggedBudget(s.db, "is_upcoming")
}

// getFlaggedBudget fetches the at-most-one budget carrying the given flag.
func getFlaggedBudget(db *gorm.DB, flag string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.Where(flag+" = ?", true).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget edits a budget's name and amount. An amount change
// propagates to the current active period's target; completed periods keep
// their historical snapshot.
func (s *budgetService) UpdateBudget(id string, name *string, amount *decimal.Decimal) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be blank")
	}
	if amount != nil && !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if name != nil {
			updates["name"] = strings.TrimSpace(*name)
		}
		if amount != nil {
			updates["amount"] = *amount
		}
		if len(updates) == 0 {
			return nil
		}
		if txErr := tx.Model(budget).Updates(updates).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if amount == nil {
			return nil
		}
		txErr := tx.Model(&models.BudgetPeriod{}).
			Where("budget_id = ? AND status = ?", budget.ID, models.PeriodStatusActive).
			Update("target_amount", *amount).Error
		if txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a non-active budget, its periods, and detaches (but
// does not delete) any expenses referencing those periods.
func (s *budgetService) DeleteBudget(id string) error {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return err
	}
	if budget.IsActive {
		return apperrors.ErrBudgetActive
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var periodIDs []string
		if txErr := tx.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budget.ID).Pluck("id", &periodIDs).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if len(periodIDs) > 0 {
			if txErr := tx.Model(&models.Expense{}).
				Where("budget_period_id IN ?", periodIDs).
				Update("budget_period_id", nil).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			if txErr := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetPeriod{}).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}

		if txErr := tx.Delete(budget).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
}

// ActivateBudget makes the given budget the single active one, deactivating
// the previous holder and clearing the new one's upcoming flag, all in one
// transaction. A budget activated without any open period gets one forward
// period starting today.
func (s *budgetService) ActivateBudget(id string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	cal, err := s.settings.Resolver()
	if err != nil {
		return nil, err
	}
	now := cal.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return activateBudgetTx(tx, cal, now, budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// activateBudgetTx is the atomic swap shared with the sweep's transition
// path: deactivate the previous active budget, flip the new one's flags,
// and open a period if it has none active or upcoming. Partial application
// is impossible; either the whole swap commits or none of it does.
func activateBudgetTx(tx *gorm.DB, cal calendar.Resolver, now time.Time, budget *models.Budget) error {
	active, err := getFlaggedBudget(tx, "is_active")
	if err != nil {
		return err
	}
	if active != nil && active.ID != budget.ID {
		if err := tx.Model(active).Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	updates := map[string]interface{}{"is_active": true, "is_upcoming": false}
	if err := tx.Model(budget).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	open, err := countOpenPeriods(tx, budget.ID)
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	cycle := period.Cycle{StartWeekday: budget.StartWeekday, DurationDays: budget.DurationDays}
	generated, err := period.GenerateForward(cal, cycle, now, 1)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_, err = createPeriodTx(tx, budget, generated[0])
	return err
}

// countOpenPeriods counts a budget's periods with status active or upcoming.
func countOpenPeriods(tx *gorm.DB, budgetID string) (int64, error) {
	var n int64
	err := tx.Model(&models.BudgetPeriod{}).
		Where("budget_id = ? AND status IN ?", budgetID,
			[]models.PeriodStatus{models.PeriodStatusActive, models.PeriodStatusUpcoming}).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

// ScheduleUpcomingBudget marks the budget as the single upcoming one,
// replacing any previously scheduled budget in the same transaction. The
// sweep activates it when the current active budget's period completes.
func (s *budgetService) ScheduleUpcomingBudget(id string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}
	if budget.IsActive {
		return nil, apperrors.ErrBudgetIsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		upcoming, txErr := getFlaggedBudget(tx, "is_upcoming")
		if txErr != nil {
			return txErr
		}
		if upcoming != nil && upcoming.ID != budget.ID {
			if txErr := tx.Model(upcoming).Update("is_upcoming", false).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}
		if txErr := tx.Model(budget).Update("is_upcoming", true).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// SetVacationMode toggles vacation mode. The flag suppresses expense
// association only; the period cycle keeps ticking.
func (s *budgetService) SetVacationMode(id string, enabled bool) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(budget).Update("vacation_mode", enabled).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetProgress calculates spending vs target for the budget's current
// active period.
func (s *budgetService) GetProgress(id string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	current, err := s.periods.CurrentPeriodForBudget(budget.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.ErrNoActivePeriod
	}

	remaining := current.TargetAmount.Sub(current.ActualSpent)
	var percentage float64
	if current.TargetAmount.IsPositive() {
		percentage, _ = current.ActualSpent.Div(current.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &BudgetProgress{
		BudgetID:   budget.ID,
		PeriodID:   current.ID,
		StartDate:  current.StartDate,
		EndDate:    current.EndDate,
		Budgeted:   current.TargetAmount,
		Spent:      current.ActualSpent,
		Remaining:  remaining,
		Percentage: percentage,
	}, nil
}
