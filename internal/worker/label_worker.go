package worker

// label_worker.go
// Processes label pre-render jobs from QueueLabels: renders the Code128 PNG
// into the label cache so the first download doesn't pay the rendering cost.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// LabelJobPayload is the job envelope sent to QueueLabels.
type LabelJobPayload struct {
	SKU string `json:"sku"`
}

// LabelCache is the slice of the label service the worker needs.
type LabelCache interface {
	EnsurePNG(ctx context.Context, sku string) (string, error)
}

// LabelWorker renders label PNGs into the on-disk cache.
type LabelWorker struct {
	labels LabelCache
}

func NewLabelWorker(labels LabelCache) *LabelWorker {
	return &LabelWorker{labels: labels}
}

func (w *LabelWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload LabelJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("label_worker: invalid payload")
		return err
	}
	if payload.SKU == "" {
		log.Warn().Msg("label_worker: empty sku, skipping")
		return nil
	}

	path, err := w.labels.EnsurePNG(ctx, payload.SKU)
	if err != nil {
		log.Error().Err(err).Str("sku", payload.SKU).Msg("label_worker: render failed")
		return err
	}
	log.Debug().Str("sku", payload.SKU).Str("path", path).Msg("label_worker: label rendered")
	return nil
}
