package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/apierror"
	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	machineCacheKey = "machines:list"
	machineCacheTTL = 1 * time.Hour
)

// MachineHandler serves the machine picker CRUD. The list is read on every
// machine-required scan, so it is cached in Redis and invalidated on writes.
type MachineHandler struct {
	svc service.MachineService
	rdb *redis.Client
}

func NewMachineHandler(svc service.MachineService, rdb *redis.Client) *MachineHandler {
	return &MachineHandler{svc: svc, rdb: rdb}
}

// List godoc
// @Summary List machines, ordered by name
// @Tags machines
// @Produce json
// @Success 200 {object} dto.MachineListResponse
// @Router /v1/machines [get]
func (h *MachineHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, machineCacheKey).Bytes(); err == nil {
			var resp dto.MachineListResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	machines, err := h.svc.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list machines"))
		return
	}
	resp := dto.MachineListResponse{OK: true, Machines: machines}

	if h.rdb != nil {
		// Populate cache, best effort.
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), machineCacheKey, b, machineCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Register a machine
// @Tags machines
// @Accept json
// @Produce json
// @Param request body dto.CreateMachineRequest true "New machine"
// @Success 201 {object} dto.MachineOption
// @Failure 409 {object} apierror.APIError
// @Router /v1/machines [post]
func (h *MachineHandler) Create(c *gin.Context) {
	var req dto.CreateMachineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeMachineError(c, err)
		return
	}
	h.invalidateCache(c)
	c.JSON(http.StatusCreated, resp)
}

// Delete godoc
// @Summary Delete a machine not referenced by any checked-out swab
// @Tags machines
// @Produce json
// @Param id path int true "Machine ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/machines/{id} [delete]
func (h *MachineHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeMachineError(c, err)
		return
	}
	h.invalidateCache(c)
	c.Status(http.StatusNoContent)
}

func (h *MachineHandler) writeMachineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMachineNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrMachineTaken), errors.Is(err, service.ErrMachineInUse):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEmptyName):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("machine operation failed"))
	}
}

func (h *MachineHandler) invalidateCache(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	_ = h.rdb.Del(c.Request.Context(), machineCacheKey).Err()
}
