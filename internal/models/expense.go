package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend, attributed to a budget period by timestamp.
// BudgetPeriodID is stamped opportunistically at creation time; an expense
// with a nil reference is an orphan and is re-evaluated on every sweep.
type Expense struct {
	Base
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category       string          `json:"category"`
	Note           string          `json:"note"`
	OccurredAt     time.Time       `gorm:"not null;index" json:"occurred_at"`
	BudgetPeriodID *string         `gorm:"type:uuid;index" json:"budget_period_id,omitempty"`

	// Relationships
	BudgetPeriod *BudgetPeriod `gorm:"foreignKey:BudgetPeriodID" json:"budget_period,omitempty"`
}
