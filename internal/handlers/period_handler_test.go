package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gin-gonic/gin"

	"spendcycle/internal/models"
)

func setupPeriodRouter(handler *PeriodHandler) *gin.Engine {
	r := gin.New()
	r.GET("/periods", handler.GetPeriods)
	r.GET("/periods/current", handler.GetCurrentPeriod)
	return r
}

func TestPeriodHandler_GetCurrentPeriod(t *testing.T) {
	t.Run("returns 200 with spend annotation", func(t *testing.T) {
		periodSvc := &mockPeriodService{
			currentPeriodFn: func() (*models.BudgetPeriod, error) {
				return &models.BudgetPeriod{
					Base:         models.Base{ID: testPeriodID},
					BudgetID:     testBudgetID,
					StartDate:    "2025-06-16",
					EndDate:      "2025-06-22",
					Status:       models.PeriodStatusActive,
					TargetAmount: decimal.NewFromInt(200),
					ActualSpent:  decimal.NewFromInt(75),
				}, nil
			},
		}
		handler := NewPeriodHandler(periodSvc)
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/periods/current", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		p := result["period"].(map[string]interface{})
		if p["status"] != "active" {
			t.Errorf("expected active, got %v", p["status"])
		}
	})

	t.Run("returns 404 when none active", func(t *testing.T) {
		periodSvc := &mockPeriodService{
			currentPeriodFn: func() (*models.BudgetPeriod, error) { return nil, nil },
		}
		handler := NewPeriodHandler(periodSvc)
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/periods/current", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_ACTIVE_PERIOD")
	})
}
