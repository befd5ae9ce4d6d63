package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/models"
	"spendcycle/internal/pagination"
)

// expenseService handles expense persistence and period association.
type expenseService struct {
	db       *gorm.DB
	settings SettingsServicer
	periods  PeriodServicer
	budgets  BudgetServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, settings SettingsServicer, periods PeriodServicer, budgets BudgetServicer) ExpenseServicer {
	return &expenseService{db: db, settings: settings, periods: periods, budgets: budgets}
}

// CreateExpense persists an expense and opportunistically stamps the
// current active period, provided the owning budget is not in vacation mode
// and the period's local date range actually contains the timestamp. When
// the stamp cannot be placed the expense is created orphaned; the sweep's
// reconciliation picks it up later. A benign race with a concurrent sweep
// therefore yields a temporary orphan, never a mis-attribution.
func (s *expenseService) CreateExpense(amount decimal.Decimal, category, note string, occurredAt time.Time) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	cal, err := s.settings.Resolver()
	if err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		occurredAt = cal.Now()
	}

	expense := &models.Expense{
		Amount:     amount,
		Category:   category,
		Note:       note,
		OccurredAt: occurredAt,
	}

	current, err := s.periods.CurrentPeriod()
	if err != nil {
		return nil, err
	}
	if current != nil {
		budget, err := s.budgets.GetBudgetByID(current.BudgetID)
		if err == nil && !budget.VacationMode {
			contains, cErr := cal.Contains(current.StartDate, current.EndDate, occurredAt)
			if cErr == nil && contains {
				expense.BudgetPeriodID = &current.ID
			}
		}
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// ListExpenses returns a paginated list of expenses, newest first, with
// optional timestamp bounds.
func (s *expenseService) ListExpenses(page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{})
	if from != nil {
		base = base.Where("occurred_at >= ?", *from)
	}
	if to != nil {
		base = base.Where("occurred_at <= ?", *to)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("occurred_at DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(id string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(id string) error {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// OrphanExpenses returns all expenses with no period reference, oldest
// first so reconciliation backfills in timestamp order.
func (s *expenseService) OrphanExpenses() ([]models.Expense, error) {
	var orphans []models.Expense
	if err := s.db.Where("budget_period_id IS NULL").Order("occurred_at ASC").Find(&orphans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return orphans, nil
}

// AssociateWithPeriod links an expense to a period.
func (s *expenseService) AssociateWithPeriod(expenseID, periodID string) error {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Model(expense).Update("budget_period_id", periodID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
