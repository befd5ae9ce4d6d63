package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/pagination"
	"spendcycle/internal/services"
)

// PeriodHandler handles budget period queries.
type PeriodHandler struct {
	periodService services.PeriodServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

// GetPeriods lists all periods across budgets.
// @Summary     List periods
// @Tags        periods
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetPeriod] "Paginated periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /periods [get]
func (h *PeriodHandler) GetPeriods(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.periodService.ListPeriods(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentPeriod returns the single active period with its computed spend.
// @Summary     Get current period
// @Tags        periods
// @Produce     json
// @Success     200 {object} models.BudgetPeriod "Current period"
// @Failure     404 {object} ErrorResponse "No active period"
// @Router      /periods/current [get]
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
	current, err := h.periodService.CurrentPeriod()
	if err != nil {
		respondWithError(c, err)
		return
	}
	if current == nil {
		respondWithError(c, apperrors.ErrNoActivePeriod)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": current})
}
