package handler

import (
	"errors"
	"net/http"

	"github.com/SamBLC92/tamponi-inventario/internal/apierror"
	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get godoc
// @Summary Current thresholds and barcode rendering settings
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Router /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load settings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Replace thresholds and barcode settings atomically
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "New settings"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidThresholds) || errors.Is(err, service.ErrInvalidBarcode) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("failed to save settings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
