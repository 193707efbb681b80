package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/model"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"
	"github.com/SamBLC92/tamponi-inventario/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// formatTs renders a timestamp for the wire, always normalized to UTC.
func formatTs(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// SwabService owns the swab side of the catalog: identity CRUD plus the
// enriched overview listing.
type SwabService interface {
	Create(ctx context.Context, req dto.CreateSwabRequest) (*dto.SwabResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateSwabRequest) (*dto.SwabResponse, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query string) (*dto.SwabListResponse, error)
}

type swabService struct {
	repo       repository.SwabRepository
	stateRepo  repository.StateRepository
	settings   SettingsService
	labels     *LabelService
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

func NewSwabService(
	repo repository.SwabRepository,
	stateRepo repository.StateRepository,
	settings SettingsService,
	labels *LabelService,
	dispatcher *worker.Dispatcher,
) SwabService {
	return &swabService{
		repo:       repo,
		stateRepo:  stateRepo,
		settings:   settings,
		labels:     labels,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *swabService) Create(ctx context.Context, req dto.CreateSwabRequest) (*dto.SwabResponse, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" {
		return nil, ErrEmptySKU
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, ErrSKUTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	swab := &model.Swab{SKU: sku, Name: name, CreatedAt: s.now()}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.repo.Create(ctx, swab); err != nil {
				return err
			}
		} else if err := tx.Create(swab).Error; err != nil {
			return err
		}
		// A freshly created swab starts in stock.
		return s.stateRepo.UpsertTx(tx, swab.ID, true, nil)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueLabel(ctx, swab.SKU)
	return swabToResponse(swab), nil
}

func (s *swabService) Update(ctx context.Context, id int64, req dto.UpdateSwabRequest) (*dto.SwabResponse, error) {
	sku := strings.TrimSpace(req.SKU)
	name := strings.TrimSpace(req.Name)
	if sku == "" {
		return nil, ErrEmptySKU
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	swab, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSwabNotFound
	}
	if err != nil {
		return nil, err
	}

	oldSKU := swab.SKU
	if sku != oldSKU {
		if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
			return nil, ErrSKUTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	swab.SKU = sku
	swab.Name = name
	if err := s.repo.Update(ctx, swab); err != nil {
		return nil, err
	}

	if sku != oldSKU && s.labels != nil {
		s.labels.Invalidate(oldSKU)
	}
	s.enqueueLabel(ctx, swab.SKU)
	return swabToResponse(swab), nil
}

// Delete removes a swab and everything derived from it. A checked-out swab
// must be returned first.
func (s *swabService) Delete(ctx context.Context, id int64) error {
	swab, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSwabNotFound
	}
	if err != nil {
		return err
	}

	state, err := s.stateRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !state.InStock {
		return ErrSwabCheckedOut
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.labels != nil {
		s.labels.Invalidate(swab.SKU)
	}
	return nil
}

func (s *swabService) List(ctx context.Context, query string) (*dto.SwabListResponse, error) {
	warnDays, alarmDays, err := s.settings.Thresholds(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOverview(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	now := s.now()
	data := make([]dto.SwabOverview, 0, len(rows))
	for _, row := range rows {
		currentDays := 0
		if row.OpenTakenTs != nil {
			currentDays = CalendarDaysBetween(*row.OpenTakenTs, now)
		}
		warning, alarm := EvaluateThresholds(currentDays, row.TotalDays, warnDays, alarmDays)
		data = append(data, dto.SwabOverview{
			ID:           row.ID,
			SKU:          row.SKU,
			Name:         row.Name,
			InStock:      row.InStock,
			UpdatedAt:    formatTs(row.UpdatedAt),
			MachineName:  row.MachineName,
			OpenTakenTs:  formatTsPtr(row.OpenTakenTs),
			CurrentDays:  currentDays,
			TotalDays:    row.TotalDays,
			Warning:      warning,
			Alarm:        alarm,
			LastTakeTs:   formatTsPtr(row.LastTakeTs),
			LastReturnTs: formatTsPtr(row.LastReturnTs),
		})
	}
	return &dto.SwabListResponse{Data: data, WarnDays: warnDays, AlarmDays: alarmDays}, nil
}

func (s *swabService) enqueueLabel(ctx context.Context, sku string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueLabelRender(ctx, sku); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("swab: failed to enqueue label render")
	}
}

func swabToResponse(sw *model.Swab) *dto.SwabResponse {
	return &dto.SwabResponse{
		ID:        sw.ID,
		SKU:       sw.SKU,
		Name:      sw.Name,
		CreatedAt: formatTs(sw.CreatedAt),
	}
}

func formatTsPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatTs(*t)
	return &formatted
}
