package services

import (
	"errors"

	"gorm.io/gorm"

	"spendcycle/internal/calendar"
	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/models"
)

// settingsService persists process-wide key/value settings.
type settingsService struct {
	db        *gorm.DB
	defaultTZ string
}

// NewSettingsService creates a new SettingsServicer. defaultTZ is the
// bootstrap value returned before any timezone has been persisted.
func NewSettingsService(db *gorm.DB, defaultTZ string) SettingsServicer {
	if defaultTZ == "" {
		defaultTZ = "UTC"
	}
	return &settingsService{db: db, defaultTZ: defaultTZ}
}

// Timezone returns the persisted timezone name, or the default when unset.
func (s *settingsService) Timezone() (string, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", models.SettingTimezone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultTZ, nil
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting.Value, nil
}

// SetTimezone validates the name against the IANA database and persists it.
// Already generated period date strings are not recomputed; only subsequent
// classification and generation use the new setting.
func (s *settingsService) SetTimezone(name string) error {
	if _, err := calendar.New(name); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidTimezone, err)
	}
	setting := models.Setting{Key: models.SettingTimezone, Value: name}
	if err := s.db.Save(&setting).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Resolver reads the timezone setting once and returns a calendar.Resolver
// for it. Callers hold the resolver for the whole logical operation.
func (s *settingsService) Resolver() (calendar.Resolver, error) {
	name, err := s.Timezone()
	if err != nil {
		return calendar.Resolver{}, err
	}
	cal, err := calendar.New(name)
	if err != nil {
		// A bad persisted value must not take the engine down.
		return calendar.UTC(), nil
	}
	return cal, nil
}
