package handler

import (
	"net/http"
	"strconv"

	"github.com/SamBLC92/tamponi-inventario/internal/apierror"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct{ svc service.MovementService }

func NewHistoryHandler(svc service.MovementService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List godoc
// @Summary Newest-first movement ledger
// @Tags movements
// @Produce json
// @Param limit query int false "Page size (1-500, default 150)"
// @Success 200 {object} dto.MovementListResponse
// @Router /v1/movements [get]
func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	resp, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
