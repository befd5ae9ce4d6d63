package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"spendcycle/internal/calendar"
	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/services"
)

// --- mock settings service ---

type mockSettingsService struct {
	timezoneFn    func() (string, error)
	setTimezoneFn func(name string) error
	resolverFn    func() (calendar.Resolver, error)
}

func (m *mockSettingsService) Timezone() (string, error) {
	if m.timezoneFn != nil {
		return m.timezoneFn()
	}
	return "UTC", nil
}

func (m *mockSettingsService) SetTimezone(name string) error {
	if m.setTimezoneFn != nil {
		return m.setTimezoneFn(name)
	}
	return nil
}

func (m *mockSettingsService) Resolver() (calendar.Resolver, error) {
	if m.resolverFn != nil {
		return m.resolverFn()
	}
	return calendar.UTC(), nil
}

var _ services.SettingsServicer = (*mockSettingsService)(nil)

func setupSettingsRouter(handler *SettingsHandler) *gin.Engine {
	r := gin.New()
	r.GET("/settings/timezone", handler.GetTimezone)
	r.PUT("/settings/timezone", handler.SetTimezone)
	return r
}

// --- tests ---

func TestSettingsHandler_GetTimezone(t *testing.T) {
	settingsSvc := &mockSettingsService{
		timezoneFn: func() (string, error) { return "America/New_York", nil },
	}
	handler := NewSettingsHandler(settingsSvc)
	r := setupSettingsRouter(handler)

	rec := doRequest(r, "GET", "/settings/timezone", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["timezone"] != "America/New_York" {
		t.Errorf("expected America/New_York, got %v", result["timezone"])
	}
}

func TestSettingsHandler_SetTimezone(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotName string
		settingsSvc := &mockSettingsService{
			setTimezoneFn: func(name string) error {
				gotName = name
				return nil
			},
		}
		handler := NewSettingsHandler(settingsSvc)
		r := setupSettingsRouter(handler)

		rec := doRequest(r, "PUT", "/settings/timezone", `{"timezone":"Asia/Tokyo"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "Asia/Tokyo" {
			t.Errorf("expected Asia/Tokyo passed to service, got %s", gotName)
		}
	})

	t.Run("returns 400 on unknown zone", func(t *testing.T) {
		settingsSvc := &mockSettingsService{
			setTimezoneFn: func(string) error { return apperrors.ErrInvalidTimezone },
		}
		handler := NewSettingsHandler(settingsSvc)
		r := setupSettingsRouter(handler)

		rec := doRequest(r, "PUT", "/settings/timezone", `{"timezone":"Mars/Olympus_Mons"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TIMEZONE")
	})

	t.Run("returns 400 on missing body", func(t *testing.T) {
		handler := NewSettingsHandler(&mockSettingsService{})
		r := setupSettingsRouter(handler)

		rec := doRequest(r, "PUT", "/settings/timezone", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
