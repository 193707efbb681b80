package infra

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barcodeSettings(writeText bool) dto.BarcodeSettings {
	return dto.BarcodeSettings{
		ModuleWidth:  decimal.RequireFromString("0.30"),
		ModuleHeight: decimal.RequireFromString("9.0"),
		QuietZone:    decimal.RequireFromString("6.0"),
		FontSize:     9,
		TextDistance: decimal.RequireFromString("1.5"),
		WriteText:    writeText,
	}
}

func TestCode128RendererProducesDecodablePNG(t *testing.T) {
	r := NewCode128Renderer()

	data, err := r.Render("SWB-0001", barcodeSettings(false))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)
}

func TestCode128RendererWriteTextAddsHeight(t *testing.T) {
	r := NewCode128Renderer()

	plain, err := r.Render("SWB-0001", barcodeSettings(false))
	require.NoError(t, err)
	labeled, err := r.Render("SWB-0001", barcodeSettings(true))
	require.NoError(t, err)

	plainImg, err := png.Decode(bytes.NewReader(plain))
	require.NoError(t, err)
	labeledImg, err := png.Decode(bytes.NewReader(labeled))
	require.NoError(t, err)

	assert.Equal(t, plainImg.Bounds().Dx(), labeledImg.Bounds().Dx())
	assert.Greater(t, labeledImg.Bounds().Dy(), plainImg.Bounds().Dy())
}

func TestCode128RendererEmptySKUFails(t *testing.T) {
	r := NewCode128Renderer()
	_, err := r.Render("", barcodeSettings(false))
	assert.Error(t, err)
}
