package models

import "time"

// Setting keys.
const (
	SettingTimezone = "timezone"
)

// Setting is a process-wide persisted key/value pair. The timezone setting
// (default UTC) governs all period boundary math; changing it affects only
// subsequent classification and generation, never stored date strings.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
