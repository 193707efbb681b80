package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct {
	calls int
}

func (r *countingRenderer) Render(sku string, _ dto.BarcodeSettings) ([]byte, error) {
	r.calls++
	return []byte("png:" + sku), nil
}

func newLabelFixture(t *testing.T) (*LabelService, *countingRenderer, SettingsService) {
	t.Helper()
	swabs := newStubSwabRepo()
	swabs.add("SWB-01", "Probe swab 10mm")
	settings := NewSettingsService(newStubSettingsRepo())
	renderer := &countingRenderer{}
	return NewLabelService(swabs, settings, renderer, t.TempDir()), renderer, settings
}

func TestLabelCacheRendersOnce(t *testing.T) {
	labels, renderer, _ := newLabelFixture(t)

	path, err := labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "SWB-01.hash"))
	assert.Equal(t, 1, renderer.calls)

	// Second call serves the cached file.
	_, err = labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)

	data, err := labels.PNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.Equal(t, []byte("png:SWB-01"), data)
	assert.Equal(t, 1, renderer.calls)
}

func TestLabelCacheReRendersOnSettingsChange(t *testing.T) {
	labels, renderer, settings := newLabelFixture(t)

	_, err := labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	require.Equal(t, 1, renderer.calls)

	req := validSettingsUpdate()
	req.ModuleWidth = decimal.RequireFromString("0.40")
	_, err = settings.Update(context.Background(), req)
	require.NoError(t, err)

	_, err = labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls)
}

func TestLabelCacheReRendersWhenFileMissing(t *testing.T) {
	labels, renderer, _ := newLabelFixture(t)

	path, err := labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls)
}

func TestLabelInvalidateRemovesCache(t *testing.T) {
	labels, renderer, _ := newLabelFixture(t)

	path, err := labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)

	labels.Invalidate("SWB-01")
	assert.NoFileExists(t, path)

	_, err = labels.EnsurePNG(context.Background(), "SWB-01")
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls)
}

func TestLabelUnknownSKUIsNotRendered(t *testing.T) {
	labels, renderer, _ := newLabelFixture(t)

	_, err := labels.EnsurePNG(context.Background(), "SWB-MISSING")
	require.ErrorIs(t, err, ErrSwabNotFound)
	assert.Equal(t, 0, renderer.calls)

	entries, err := os.ReadDir(labels.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLabelSKUValidation(t *testing.T) {
	labels, _, _ := newLabelFixture(t)

	for _, sku := range []string{"", "../etc/passwd", `a\b`, "a/b"} {
		_, err := labels.EnsurePNG(context.Background(), sku)
		assert.Error(t, err, "sku %q", sku)
	}
}
