package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendcycle/internal/errors"
	"spendcycle/internal/services"
)

// SettingsHandler handles process-wide settings requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// TimezoneRequest carries a timezone update.
type TimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// GetTimezone returns the governing timezone setting.
// @Summary     Get timezone
// @Tags        settings
// @Produce     json
// @Success     200 {object} map[string]string "Timezone name"
// @Router      /settings/timezone [get]
func (h *SettingsHandler) GetTimezone(c *gin.Context) {
	tz, err := h.settingsService.Timezone()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timezone": tz})
}

// SetTimezone updates the governing timezone. Already generated period date
// strings are not recomputed; only subsequent classification and generation
// use the new setting.
// @Summary     Set timezone
// @Tags        settings
// @Accept      json
// @Produce     json
// @Param       request body TimezoneRequest true "IANA timezone name"
// @Success     200 {object} map[string]string "Timezone updated"
// @Failure     400 {object} ErrorResponse "Unknown timezone"
// @Router      /settings/timezone [put]
func (h *SettingsHandler) SetTimezone(c *gin.Context) {
	var req TimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingsService.SetTimezone(req.Timezone); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timezone": req.Timezone})
}
