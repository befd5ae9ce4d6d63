package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/models"
	"spendcycle/internal/pagination"
	"spendcycle/internal/period"
)

// periodService handles budget period persistence and queries.
type periodService struct {
	db       *gorm.DB
	settings SettingsServicer
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB, settings SettingsServicer) PeriodServicer {
	return &periodService{db: db, settings: settings}
}

// ListPeriods returns a paginated list of all periods, newest first, each
// annotated with its computed actual spend.
func (s *periodService) ListPeriods(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetPeriod{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.BudgetPeriod
	if err := base.Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.annotateSpent(periods); err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(periods, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// PeriodsForBudget returns all periods of one budget ordered by start date,
// annotated with actual spend.
func (s *periodService) PeriodsForBudget(budgetID string) ([]models.BudgetPeriod, error) {
	var periods []models.BudgetPeriod
	if err := s.db.Where("budget_id = ?", budgetID).Order("start_date ASC").Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.annotateSpent(periods); err != nil {
		return nil, err
	}
	return periods, nil
}

// CurrentPeriod returns the single period with status active, or nil when
// none exists.
func (s *periodService) CurrentPeriod() (*models.BudgetPeriod, error) {
	var p models.BudgetPeriod
	if err := s.db.Where("status = ?", models.PeriodStatusActive).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.annotateOne(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CurrentPeriodForBudget returns the budget's active period, or nil.
func (s *periodService) CurrentPeriodForBudget(budgetID string) (*models.BudgetPeriod, error) {
	var p models.BudgetPeriod
	err := s.db.Where("budget_id = ? AND status = ?", budgetID, models.PeriodStatusActive).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.annotateOne(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePeriod persists a generated period for a budget, snapshotting the
// budget's amount as the period target. The overlap check runs against all
// existing periods of the budget before anything is written.
func (s *periodService) CreatePeriod(budget *models.Budget, dates period.Dates) (*models.BudgetPeriod, error) {
	var result *models.BudgetPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = createPeriodTx(tx, budget, dates)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createPeriodTx is the transactional core of CreatePeriod, shared with the
// budget and sweep services.
func createPeriodTx(tx *gorm.DB, budget *models.Budget, dates period.Dates) (*models.BudgetPeriod, error) {
	var existing []models.BudgetPeriod
	if err := tx.Where("budget_id = ?", budget.ID).Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if period.HasOverlap(dates, existing) {
		return nil, apperrors.ErrPeriodOverlap
	}

	p := &models.BudgetPeriod{
		BudgetID:     budget.ID,
		StartDate:    dates.StartDate,
		EndDate:      dates.EndDate,
		TargetAmount: budget.Amount,
		Status:       dates.Status,
	}
	if err := tx.Create(p).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return p, nil
}

// UpdateStatus advances a period's status. Transitions are monotonic:
// completed periods are immutable and a status can never move backwards.
func (s *periodService) UpdateStatus(id string, status models.PeriodStatus) error {
	var p models.BudgetPeriod
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPeriodNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if status == p.Status {
		return nil
	}
	if status.Rank() < p.Status.Rank() {
		return apperrors.ErrPeriodCompleted
	}
	if err := s.db.Model(&p).Update("status", status).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// FindPeriodForExpense locates the period whose inclusive local date range
// contains the expense timestamp, mapping the instant through the governing
// timezone rather than comparing raw instants to date strings. Periods of
// the active budget win over stale ranges of other budgets.
func (s *periodService) FindPeriodForExpense(occurredAt time.Time) (*models.BudgetPeriod, error) {
	cal, err := s.settings.Resolver()
	if err != nil {
		return nil, err
	}
	localDate := cal.FormatDate(occurredAt)

	var p models.BudgetPeriod
	err = s.db.
		Joins("JOIN budgets ON budgets.id = budget_periods.budget_id AND budgets.deleted_at IS NULL").
		Where("budget_periods.start_date <= ? AND budget_periods.end_date >= ?", localDate, localDate).
		Order("budgets.is_active DESC, budget_periods.start_date DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

// annotateSpent fills ActualSpent for a slice of periods.
func (s *periodService) annotateSpent(periods []models.BudgetPeriod) error {
	for i := range periods {
		if err := s.annotateOne(&periods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *periodService) annotateOne(p *models.BudgetPeriod) error {
	var spent decimal.Decimal
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_period_id = ?", p.ID).
		Scan(&spent).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	p.ActualSpent = spent
	return nil
}
