package handler

import (
	"errors"
	"net/http"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct{ svc service.ScanService }

func NewScanHandler(svc service.ScanService) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// Scan godoc
// @Summary Process a TAKE/RETURN/TOGGLE barcode scan
// @Tags scan
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Scan payload"
// @Success 200 {object} dto.ScanResponse
// @Failure 400 {object} dto.ScanFailure
// @Failure 404 {object} dto.ScanFailure
// @Failure 409 {object} dto.MachineRequiredResponse
// @Router /v1/scan [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Scan(c.Request.Context(), req)
	if err != nil {
		h.writeScanError(c, &req, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScanHandler) writeScanError(c *gin.Context, req *dto.ScanRequest, err error) {
	var needMachine *service.MachineRequiredError
	if errors.As(err, &needMachine) {
		c.JSON(http.StatusConflict, dto.MachineRequiredResponse{
			NeedMachine: true,
			Message:     "machine required to take this swab",
			Machines:    needMachine.Machines,
			SKU:         req.SKU,
			Mode:        req.Mode,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrSwabNotFound):
		c.JSON(http.StatusNotFound, dto.ScanFailure{Error: "unknown sku"})
	case errors.Is(err, service.ErrEmptySKU),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidMachine):
		c.JSON(http.StatusBadRequest, dto.ScanFailure{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ScanFailure{Error: "scan failed"})
	}
}
