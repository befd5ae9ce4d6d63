package models

import "github.com/shopspring/decimal"

// PeriodStatus represents the lifecycle state of a budget period.
// Transitions are monotonic: upcoming -> active -> completed, never back.
type PeriodStatus string

const (
	PeriodStatusUpcoming  PeriodStatus = "upcoming"
	PeriodStatusActive    PeriodStatus = "active"
	PeriodStatusCompleted PeriodStatus = "completed"
)

// Rank orders statuses along the lifecycle so monotonicity can be checked.
func (s PeriodStatus) Rank() int {
	switch s {
	case PeriodStatusUpcoming:
		return 0
	case PeriodStatusActive:
		return 1
	case PeriodStatusCompleted:
		return 2
	}
	return -1
}

// BudgetPeriod is one concrete occurrence of a budget's cycle. Start and end
// dates are inclusive calendar dates (YYYY-MM-DD) local to the timezone that
// governed generation; they are never recomputed after a timezone change.
// The dates are stored as plain text, not DATE columns: drivers scan DATE
// into time.Time and the strings would come back as RFC3339 timestamps.
// TargetAmount is a snapshot of the budget's amount at creation time.
type BudgetPeriod struct {
	Base
	BudgetID     string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	StartDate    string          `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate      string          `gorm:"type:varchar(10);not null" json:"end_date"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_amount"`
	Status       PeriodStatus    `gorm:"not null;index" json:"status"`

	// Sum of associated expenses, computed at query time and never stored.
	ActualSpent decimal.Decimal `gorm:"-" json:"actual_spent"`

	// Relationships
	Budget *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}
