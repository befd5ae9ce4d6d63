package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendcycle/internal/scheduler"
	"spendcycle/internal/services"
)

// SweepHandler exposes operational triggers mirroring the sweep's steps.
type SweepHandler struct {
	scheduler       *scheduler.Scheduler
	sweepService    services.SweepServicer
	settingsService services.SettingsServicer
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(sched *scheduler.Scheduler, sweepService services.SweepServicer, settingsService services.SettingsServicer) *SweepHandler {
	return &SweepHandler{scheduler: sched, sweepService: sweepService, settingsService: settingsService}
}

// RunSweep triggers a full sweep immediately.
// @Summary     Run a full sweep
// @Tags        sweep
// @Produce     json
// @Success     200 {object} services.SweepResult "Sweep summary"
// @Router      /sweep/run [post]
func (h *SweepHandler) RunSweep(c *gin.Context) {
	result := h.scheduler.RunNow()
	c.JSON(http.StatusOK, result)
}

// Reclassify forces status reclassification of all periods.
// @Summary     Force reclassification
// @Tags        sweep
// @Produce     json
// @Success     200 {object} map[string]int "Number of status writes"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sweep/reclassify [post]
func (h *SweepHandler) Reclassify(c *gin.Context) {
	cal, err := h.settingsService.Resolver()
	if err != nil {
		respondWithError(c, err)
		return
	}

	_, reclassified, err := h.sweepService.ReclassifyAll(cal, cal.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reclassified": reclassified})
}

// Continue forces the continuation/transition/recovery step. Reclassified
// completions from earlier sweeps are not replayed; this only heals an
// active budget left without an open period.
// @Summary     Force auto-continuation
// @Tags        sweep
// @Produce     json
// @Success     200 {object} map[string]int "Periods generated"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sweep/continue [post]
func (h *SweepHandler) Continue(c *gin.Context) {
	cal, err := h.settingsService.Resolver()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transitioned, continued, recovered, err := h.sweepService.ContinueCycles(cal, cal.Now(), nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transitioned": transitioned,
		"continued":    continued,
		"recovered":    recovered,
	})
}

// Reconcile forces orphan expense reconciliation.
// @Summary     Force orphan reconciliation
// @Tags        sweep
// @Produce     json
// @Success     200 {object} map[string]int "Expenses associated"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sweep/reconcile [post]
func (h *SweepHandler) Reconcile(c *gin.Context) {
	cal, err := h.settingsService.Resolver()
	if err != nil {
		respondWithError(c, err)
		return
	}

	associated, err := h.sweepService.ReconcileOrphans(cal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"associated": associated})
}
