package models

import "github.com/shopspring/decimal"

// Budget is a recurring spending-cycle definition: a weekday anchor, a cycle
// length in days, and a target amount. At most one budget is active and at
// most one is marked upcoming at any time; those flips happen only through
// the budget service's transactional transitions.
type Budget struct {
	Base
	Name         string          `gorm:"not null" json:"name"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	StartWeekday int             `gorm:"not null" json:"start_weekday"` // 0 = Sunday .. 6 = Saturday
	DurationDays int             `gorm:"not null" json:"duration_days"` // 7..28 inclusive
	IsActive     bool            `gorm:"default:false;index" json:"is_active"`
	IsUpcoming   bool            `gorm:"default:false;index" json:"is_upcoming"`
	VacationMode bool            `gorm:"default:false" json:"vacation_mode"`

	// Relationships
	Periods []BudgetPeriod `gorm:"foreignKey:BudgetID" json:"periods,omitempty"`
}
