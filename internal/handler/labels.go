package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SamBLC92/tamponi-inventario/internal/apierror"
	"github.com/SamBLC92/tamponi-inventario/internal/service"

	"github.com/gin-gonic/gin"
)

// SheetLabel is one cell of the printable label sheet.
type SheetLabel struct {
	SKU  string
	Name string
	PNG  []byte
}

// SheetBuilder renders a page of labels into a PDF document.
type SheetBuilder interface {
	Build(labels []SheetLabel) ([]byte, error)
}

type LabelHandler struct {
	labels *service.LabelService
	swabs  service.SwabService
	sheets SheetBuilder
}

func NewLabelHandler(labels *service.LabelService, swabs service.SwabService, sheets SheetBuilder) *LabelHandler {
	return &LabelHandler{labels: labels, swabs: swabs, sheets: sheets}
}

// PNG godoc
// @Summary Barcode label PNG for one SKU
// @Tags labels
// @Produce png
// @Param sku path string true "SKU (with optional .png suffix)"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/labels/{sku} [get]
func (h *LabelHandler) PNG(c *gin.Context) {
	sku := strings.TrimSuffix(c.Param("sku"), ".png")
	b, err := h.labels.PNG(c.Request.Context(), sku)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySKU):
			c.JSON(http.StatusBadRequest, apierror.New("invalid sku"))
		case errors.Is(err, service.ErrSwabNotFound):
			c.JSON(http.StatusNotFound, apierror.New("unknown sku"))
		default:
			c.JSON(http.StatusNotFound, apierror.New("label not available"))
		}
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// PrintSheet godoc
// @Summary PDF sheet with one label per registered swab
// @Tags labels
// @Produce application/pdf
// @Param skus query string false "Comma-separated SKUs to include (default: all)"
// @Success 200 {file} binary
// @Router /v1/labels/print [get]
func (h *LabelHandler) PrintSheet(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.swabs.List(ctx, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list swabs"))
		return
	}

	var want map[string]bool
	if raw := c.Query("skus"); raw != "" {
		want = make(map[string]bool)
		for _, sku := range strings.Split(raw, ",") {
			if sku = strings.TrimSpace(sku); sku != "" {
				want[sku] = true
			}
		}
	}

	labels := make([]SheetLabel, 0, len(list.Data))
	for _, sw := range list.Data {
		if want != nil && !want[sw.SKU] {
			continue
		}
		png, err := h.labels.PNG(ctx, sw.SKU)
		if err != nil {
			// Skip swabs whose label cannot be rendered rather than failing
			// the whole sheet.
			continue
		}
		labels = append(labels, SheetLabel{SKU: sw.SKU, Name: sw.Name, PNG: png})
	}
	if len(labels) == 0 {
		c.JSON(http.StatusNotFound, apierror.New("no labels to print"))
		return
	}

	pdf, err := h.sheets.Build(labels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build label sheet"))
		return
	}
	c.Header("Content-Disposition", `inline; filename="labels.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
