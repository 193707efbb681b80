package infra

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// pxPerMM is the raster density of rendered labels, roughly a 203 dpi
// thermal printer.
const pxPerMM = 8.0

// Code128Renderer rasterizes SKUs as Code128 PNG labels. The geometry
// parameters are in millimeters and are scaled to pixels here.
type Code128Renderer struct{}

func NewCode128Renderer() *Code128Renderer { return &Code128Renderer{} }

func (r *Code128Renderer) Render(sku string, settings dto.BarcodeSettings) ([]byte, error) {
	bc, err := code128.Encode(sku)
	if err != nil {
		return nil, fmt.Errorf("barcode: encode %q: %w", sku, err)
	}

	moduleWidth, _ := settings.ModuleWidth.Float64()
	moduleHeight, _ := settings.ModuleHeight.Float64()
	quietZone, _ := settings.QuietZone.Float64()
	textDistance, _ := settings.TextDistance.Float64()

	modules := bc.Bounds().Dx()
	barW := int(float64(modules) * moduleWidth * pxPerMM)
	barH := int(moduleHeight * pxPerMM)
	if barW < modules {
		barW = modules
	}
	if barH < 1 {
		barH = 1
	}

	scaled, err := barcode.Scale(bc, barW, barH)
	if err != nil {
		return nil, fmt.Errorf("barcode: scale %q: %w", sku, err)
	}

	quietPx := int(quietZone * pxPerMM)
	textH := 0
	if settings.WriteText {
		textH = int(textDistance*pxPerMM) + basicfont.Face7x13.Height
	}

	canvas := image.NewRGBA(image.Rect(0, 0, barW+2*quietPx, barH+2*quietPx+textH))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(quietPx, quietPx, quietPx+barW, quietPx+barH),
		scaled, image.Point{}, draw.Src)

	if settings.WriteText {
		drawCenteredText(canvas, sku, quietPx+barH+int(textDistance*pxPerMM))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("barcode: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCenteredText(canvas *image.RGBA, text string, top int) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	x := (canvas.Bounds().Dx() - textW) / 2
	if x < 0 {
		x = 0
	}
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x, top+face.Ascent),
	}
	d.DrawString(text)
}
