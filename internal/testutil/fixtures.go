package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendcycle/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestBudget creates a weekly Monday-anchored budget. It is not
// active; tests that need the active budget flip the flag explicitly.
func CreateTestBudget(t *testing.T, db *gorm.DB) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:         fmt.Sprintf("Budget %d", nextID()),
		Amount:       decimal.NewFromInt(200),
		StartWeekday: 1,
		DurationDays: 7,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateActiveTestBudget creates a budget and marks it active.
func CreateActiveTestBudget(t *testing.T, db *gorm.DB) *models.Budget {
	t.Helper()

	budget := CreateTestBudget(t, db)
	if err := db.Model(budget).Update("is_active", true).Error; err != nil {
		t.Fatalf("failed to activate test budget: %v", err)
	}
	return budget
}

// CreateTestPeriod creates a period for the budget with explicit dates and
// status, snapshotting the budget's amount as the target.
func CreateTestPeriod(t *testing.T, db *gorm.DB, budget *models.Budget, start, end string, status models.PeriodStatus) *models.BudgetPeriod {
	t.Helper()

	p := &models.BudgetPeriod{
		BudgetID:     budget.ID,
		StartDate:    start,
		EndDate:      end,
		TargetAmount: budget.Amount,
		Status:       status,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return p
}

// CreateTestExpense creates an expense at the given instant, optionally
// associated with a period.
func CreateTestExpense(t *testing.T, db *gorm.DB, occurredAt time.Time, periodID *string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Amount:         decimal.NewFromInt(25),
		Category:       "groceries",
		Note:           fmt.Sprintf("expense %d", nextID()),
		OccurredAt:     occurredAt,
		BudgetPeriodID: periodID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
