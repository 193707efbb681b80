package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SamBLC92/tamponi-inventario/internal/apierror"
	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type SwabHandler struct{ svc service.SwabService }

func NewSwabHandler(svc service.SwabService) *SwabHandler {
	return &SwabHandler{svc: svc}
}

// List godoc
// @Summary List swabs with current state, usage counters and threshold flags
// @Tags swabs
// @Produce json
// @Param q query string false "Filter by swab or machine name"
// @Success 200 {object} dto.SwabListResponse
// @Router /v1/swabs [get]
func (h *SwabHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list swabs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Register a new swab
// @Tags swabs
// @Accept json
// @Produce json
// @Param request body dto.CreateSwabRequest true "New swab"
// @Success 201 {object} dto.SwabResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/swabs [post]
func (h *SwabHandler) Create(c *gin.Context) {
	var req dto.CreateSwabRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeSwabError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Rename a swab or change its SKU
// @Tags swabs
// @Accept json
// @Produce json
// @Param id path int true "Swab ID"
// @Param request body dto.UpdateSwabRequest true "Updated swab"
// @Success 200 {object} dto.SwabResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/swabs/{id} [put]
func (h *SwabHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateSwabRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeSwabError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a swab and its history
// @Tags swabs
// @Produce json
// @Param id path int true "Swab ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/swabs/{id} [delete]
func (h *SwabHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeSwabError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SwabHandler) writeSwabError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSwabNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSKUTaken), errors.Is(err, service.ErrSwabCheckedOut):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEmptySKU), errors.Is(err, service.ErrEmptyName):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("swab operation failed"))
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return 0, false
	}
	return id, true
}
