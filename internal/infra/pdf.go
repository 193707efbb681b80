package infra

// pdf.go: printable label sheet generation using go-pdf/fpdf.
// Lays rendered barcode PNGs out on an A4 grid, one cell per swab, with the
// swab name under each barcode so sheets can be cut and applied by hand.

import (
	"bytes"
	"fmt"

	"github.com/SamBLC92/tamponi-inventario/internal/handler"

	"github.com/go-pdf/fpdf"
)

const (
	sheetCols      = 3
	sheetCellW     = 63.0 // mm
	sheetCellH     = 38.0 // mm
	sheetMarginX   = 10.0
	sheetMarginY   = 12.0
	sheetBarcodeH  = 22.0
	sheetNameLimit = 28
)

// LabelSheetBuilder implements handler.SheetBuilder on top of fpdf.
type LabelSheetBuilder struct{}

func NewLabelSheetBuilder() *LabelSheetBuilder { return &LabelSheetBuilder{} }

func (b *LabelSheetBuilder) Build(labels []handler.SheetLabel) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(sheetMarginX, sheetMarginY, sheetMarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	_, pageH := pdf.GetPageSize()
	rowsPerPage := int((pageH - 2*sheetMarginY) / sheetCellH)
	if rowsPerPage < 1 {
		rowsPerPage = 1
	}
	perPage := rowsPerPage * sheetCols

	for i, lbl := range labels {
		if i > 0 && i%perPage == 0 {
			pdf.AddPage()
		}
		slot := i % perPage
		x := sheetMarginX + float64(slot%sheetCols)*sheetCellW
		y := sheetMarginY + float64(slot/sheetCols)*sheetCellH

		imgName := fmt.Sprintf("label-%d", i)
		pdf.RegisterImageOptionsReader(imgName,
			fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(lbl.PNG))
		pdf.ImageOptions(imgName, x+2, y+2, sheetCellW-4, sheetBarcodeH,
			false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		name := truncateSheetName(lbl.Name)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x, y+2+sheetBarcodeH+1)
		pdf.CellFormat(sheetCellW, 4, name, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(x, y+2+sheetBarcodeH+5)
		pdf.CellFormat(sheetCellW, 4, lbl.SKU, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write label sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// truncateSheetName shortens a name to fit its cell, counting runes so a
// multibyte character is never cut mid-sequence.
func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) <= sheetNameLimit {
		return name
	}
	return string(runes[:sheetNameLimit-1]) + "…"
}
