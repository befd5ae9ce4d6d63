package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spendcycle/internal/calendar"
	"spendcycle/internal/models"
	"spendcycle/internal/pagination"
	"spendcycle/internal/period"
)

// SettingsServicer defines the contract for process-wide settings. The
// timezone setting is resolved once per logical operation into a
// calendar.Resolver; components never re-read it mid-computation.
type SettingsServicer interface {
	Timezone() (string, error)
	SetTimezone(name string) error
	Resolver() (calendar.Resolver, error)
}

// BudgetServicer defines the contract for budget lifecycle logic. Flag
// flips (active/upcoming) happen only inside its transactional transitions,
// keeping the single-active and single-upcoming invariants centrally
// checked.
type BudgetServicer interface {
	CreateBudget(name string, amount decimal.Decimal, startWeekday, durationDays int, retroactive bool, anchor *time.Time) (*models.Budget, error)
	ListBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(id string) (*models.Budget, error)
	GetActiveBudget() (*models.Budget, error)
	GetUpcomingBudget() (*models.Budget, error)
	UpdateBudget(id string, name *string, amount *decimal.Decimal) (*models.Budget, error)
	DeleteBudget(id string) error
	ActivateBudget(id string) (*models.Budget, error)
	ScheduleUpcomingBudget(id string) (*models.Budget, error)
	SetVacationMode(id string, enabled bool) (*models.Budget, error)
	GetProgress(id string) (*BudgetProgress, error)
}

// BudgetProgress contains spending vs target for a budget's current period.
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	PeriodID   string          `json:"period_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// PeriodServicer defines the store contract for budget periods. Every query
// that annotates ActualSpent computes it from associated expenses; it is
// never stored.
type PeriodServicer interface {
	ListPeriods(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error)
	PeriodsForBudget(budgetID string) ([]models.BudgetPeriod, error)
	CurrentPeriod() (*models.BudgetPeriod, error)
	CurrentPeriodForBudget(budgetID string) (*models.BudgetPeriod, error)
	CreatePeriod(budget *models.Budget, dates period.Dates) (*models.BudgetPeriod, error)
	UpdateStatus(id string, status models.PeriodStatus) error
	FindPeriodForExpense(occurredAt time.Time) (*models.BudgetPeriod, error)
}

// ExpenseServicer defines the contract for expenses. Creation stamps the
// current active period opportunistically; reconciliation backfills the
// rest.
type ExpenseServicer interface {
	CreateExpense(amount decimal.Decimal, category, note string, occurredAt time.Time) (*models.Expense, error)
	ListExpenses(page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(id string) (*models.Expense, error)
	DeleteExpense(id string) error
	OrphanExpenses() ([]models.Expense, error)
	AssociateWithPeriod(expenseID, periodID string) error
}

// SweepResult summarizes one execution of the periodic sweep.
type SweepResult struct {
	Reclassified int `json:"reclassified"`
	Transitioned int `json:"transitioned"`
	Continued    int `json:"continued"`
	Recovered    int `json:"recovered"`
	Associated   int `json:"associated"`
}

// SweepServicer drives the continuation & transition engine. RunSweep
// resolves "now" and the timezone exactly once, runs the four steps with
// isolated failures, and is idempotent: re-running with no elapsed time
// produces no additional writes.
type SweepServicer interface {
	RunSweep() SweepResult
	ReclassifyAll(cal calendar.Resolver, now time.Time) ([]models.BudgetPeriod, int, error)
	ContinueCycles(cal calendar.Resolver, now time.Time, completed []models.BudgetPeriod) (transitioned, continued, recovered int, err error)
	ReconcileOrphans(cal calendar.Resolver) (int, error)
}
