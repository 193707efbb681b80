package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LabelRenderer produces the barcode image bytes for a SKU. The concrete
// implementation lives in infra; the cache below only decides when rendering
// is needed.
type LabelRenderer interface {
	Render(sku string, settings dto.BarcodeSettings) ([]byte, error)
}

// LabelService maintains the on-disk label cache: one PNG per SKU, paired
// with the settings hash it was rendered under. A cached PNG is reused iff
// its recorded hash matches the current label settings hash.
type LabelService struct {
	swabs    repository.SwabRepository
	settings SettingsService
	renderer LabelRenderer
	dir      string
}

func NewLabelService(swabs repository.SwabRepository, settings SettingsService, renderer LabelRenderer, dir string) *LabelService {
	return &LabelService{swabs: swabs, settings: settings, renderer: renderer, dir: dir}
}

// EnsurePNG returns the path of a fresh label PNG for the SKU, rendering it
// when missing or stale. Only registered SKUs get a cache entry.
func (s *LabelService) EnsurePNG(ctx context.Context, sku string) (string, error) {
	if err := validateLabelSKU(sku); err != nil {
		return "", err
	}
	if _, err := s.swabs.FindBySKU(ctx, sku); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSwabNotFound
		}
		return "", err
	}

	hash, err := s.settings.LabelSettingsHash(ctx)
	if err != nil {
		return "", err
	}

	pngPath := filepath.Join(s.dir, sku+".png")
	hashPath := filepath.Join(s.dir, sku+".hash")

	if current, err := os.ReadFile(hashPath); err == nil {
		if strings.TrimSpace(string(current)) == hash {
			if _, err := os.Stat(pngPath); err == nil {
				return pngPath, nil
			}
		}
	}

	bc, err := s.settings.Barcode(ctx)
	if err != nil {
		return "", err
	}
	data, err := s.renderer.Render(sku, bc)
	if err != nil {
		return "", fmt.Errorf("render label for %s: %w", sku, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(pngPath, data, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(hashPath, []byte(hash), 0o644); err != nil {
		return "", err
	}
	return pngPath, nil
}

// PNG returns the label image bytes, rendering on demand.
func (s *LabelService) PNG(ctx context.Context, sku string) ([]byte, error) {
	path, err := s.EnsurePNG(ctx, sku)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Invalidate drops the cached files for a SKU, e.g. after a re-SKU.
// Best effort: a missing cache entry is not an error.
func (s *LabelService) Invalidate(sku string) {
	if validateLabelSKU(sku) != nil {
		return
	}
	for _, ext := range []string{".png", ".hash"} {
		if err := os.Remove(filepath.Join(s.dir, sku+ext)); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("sku", sku).Msg("label cache: failed to remove file")
		}
	}
}

// validateLabelSKU keeps cache file names inside the labels directory.
func validateLabelSKU(sku string) error {
	if sku == "" || strings.ContainsAny(sku, `/\`) || strings.Contains(sku, "..") {
		return ErrEmptySKU
	}
	return nil
}
