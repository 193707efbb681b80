package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settings keys. The barcode hash is derived, never set by clients.
const (
	SettingWarnDays            = "global_warn_days"
	SettingAlarmDays           = "global_alarm_days"
	SettingBarcodeModuleWidth  = "barcode_module_width"
	SettingBarcodeModuleHeight = "barcode_module_height"
	SettingBarcodeQuietZone    = "barcode_quiet_zone"
	SettingBarcodeFontSize     = "barcode_font_size"
	SettingBarcodeTextDistance = "barcode_text_distance"
	SettingBarcodeWriteText    = "barcode_write_text"
	SettingBarcodeHash         = "barcode_settings_hash"
)

const (
	DefaultWarnDays  = 180
	DefaultAlarmDays = 200
)

var (
	defaultModuleWidth  = decimal.RequireFromString("0.30")
	defaultModuleHeight = decimal.RequireFromString("9.0")
	defaultQuietZone    = decimal.RequireFromString("6.0")
	defaultFontSize     = 9
	defaultTextDistance = decimal.RequireFromString("1.5")
	defaultWriteText    = false
)

// SettingsService is the single versioned read/write path for the global
// thresholds and barcode parameters. Updates validate before committing and
// write the whole group plus the recomputed hash in one transaction, so
// readers observe either the old or the new settings, never a mix.
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	Thresholds(ctx context.Context) (warnDays, alarmDays int, err error)
	Barcode(ctx context.Context) (dto.BarcodeSettings, error)
	// LabelSettingsHash is the deterministic hash over the ordered barcode
	// parameters; it changes iff any rendering parameter changes. The label
	// cache uses it to decide whether a rendered PNG is stale.
	LabelSettingsHash(ctx context.Context) (string, error)
	// EnsureDefaults seeds missing settings rows at startup (idempotent).
	EnsureDefaults(ctx context.Context) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	warn, alarm, err := s.Thresholds(ctx)
	if err != nil {
		return nil, err
	}
	bc, err := s.Barcode(ctx)
	if err != nil {
		return nil, err
	}
	hash, err := s.LabelSettingsHash(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		WarnDays:     warn,
		AlarmDays:    alarm,
		Barcode:      bc,
		SettingsHash: hash,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if req.WarnDays <= 0 || req.AlarmDays <= 0 || req.WarnDays >= req.AlarmDays {
		return nil, ErrInvalidThresholds
	}
	bc := dto.BarcodeSettings{
		ModuleWidth:  req.ModuleWidth,
		ModuleHeight: req.ModuleHeight,
		QuietZone:    req.QuietZone,
		FontSize:     req.FontSize,
		TextDistance: req.TextDistance,
		WriteText:    req.WriteText,
	}
	if !bc.ModuleWidth.IsPositive() || !bc.ModuleHeight.IsPositive() ||
		!bc.QuietZone.IsPositive() || bc.FontSize <= 0 || !bc.TextDistance.IsPositive() {
		return nil, ErrInvalidBarcode
	}

	hash := computeBarcodeHash(bc)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		values := map[string]string{
			SettingWarnDays:            strconv.Itoa(req.WarnDays),
			SettingAlarmDays:           strconv.Itoa(req.AlarmDays),
			SettingBarcodeModuleWidth:  bc.ModuleWidth.String(),
			SettingBarcodeModuleHeight: bc.ModuleHeight.String(),
			SettingBarcodeQuietZone:    bc.QuietZone.String(),
			SettingBarcodeFontSize:     strconv.Itoa(bc.FontSize),
			SettingBarcodeTextDistance: bc.TextDistance.String(),
			SettingBarcodeWriteText:    boolValue(bc.WriteText),
			SettingBarcodeHash:         hash,
		}
		for key, value := range values {
			if err := s.repo.UpsertTx(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SettingsResponse{
		WarnDays:     req.WarnDays,
		AlarmDays:    req.AlarmDays,
		Barcode:      bc,
		SettingsHash: hash,
	}, nil
}

func (s *settingsService) Thresholds(ctx context.Context) (int, int, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	warn := positiveInt(all[SettingWarnDays], DefaultWarnDays)
	alarm := positiveInt(all[SettingAlarmDays], DefaultAlarmDays)
	return warn, alarm, nil
}

func (s *settingsService) Barcode(ctx context.Context) (dto.BarcodeSettings, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return dto.BarcodeSettings{}, err
	}
	return barcodeFromValues(all), nil
}

func (s *settingsService) LabelSettingsHash(ctx context.Context) (string, error) {
	stored, err := s.repo.Get(ctx, SettingBarcodeHash)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return stored, nil
	}
	bc, err := s.Barcode(ctx)
	if err != nil {
		return "", err
	}
	computed := computeBarcodeHash(bc)
	if err := s.repo.Upsert(ctx, SettingBarcodeHash, computed); err != nil {
		return "", err
	}
	return computed, nil
}

func (s *settingsService) EnsureDefaults(ctx context.Context) error {
	defaults := map[string]string{
		SettingWarnDays:            strconv.Itoa(DefaultWarnDays),
		SettingAlarmDays:           strconv.Itoa(DefaultAlarmDays),
		SettingBarcodeModuleWidth:  defaultModuleWidth.String(),
		SettingBarcodeModuleHeight: defaultModuleHeight.String(),
		SettingBarcodeQuietZone:    defaultQuietZone.String(),
		SettingBarcodeFontSize:     strconv.Itoa(defaultFontSize),
		SettingBarcodeTextDistance: defaultTextDistance.String(),
		SettingBarcodeWriteText:    boolValue(defaultWriteText),
		SettingBarcodeHash:         computeBarcodeHash(defaultBarcode()),
	}
	for key, value := range defaults {
		if err := s.repo.EnsureDefault(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func defaultBarcode() dto.BarcodeSettings {
	return dto.BarcodeSettings{
		ModuleWidth:  defaultModuleWidth,
		ModuleHeight: defaultModuleHeight,
		QuietZone:    defaultQuietZone,
		FontSize:     defaultFontSize,
		TextDistance: defaultTextDistance,
		WriteText:    defaultWriteText,
	}
}

func barcodeFromValues(values map[string]string) dto.BarcodeSettings {
	return dto.BarcodeSettings{
		ModuleWidth:  positiveDecimal(values[SettingBarcodeModuleWidth], defaultModuleWidth),
		ModuleHeight: positiveDecimal(values[SettingBarcodeModuleHeight], defaultModuleHeight),
		QuietZone:    positiveDecimal(values[SettingBarcodeQuietZone], defaultQuietZone),
		FontSize:     positiveInt(values[SettingBarcodeFontSize], defaultFontSize),
		TextDistance: positiveDecimal(values[SettingBarcodeTextDistance], defaultTextDistance),
		WriteText:    boolSetting(values[SettingBarcodeWriteText], defaultWriteText),
	}
}

// positiveInt parses raw, substituting def for missing, malformed, or
// non-positive values. Stored settings never break reads.
func positiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func positiveDecimal(raw string, def decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(raw)
	if err != nil || !v.IsPositive() {
		return def
	}
	return v
}

func boolSetting(raw string, def bool) bool {
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// computeBarcodeHash hashes the parameters in a fixed key order with
// value-canonical number formatting, so equal parameter values always produce
// the same hash regardless of how they were entered ("9.0" vs "9").
func computeBarcodeHash(bc dto.BarcodeSettings) string {
	payload := fmt.Sprintf(
		`{"font_size":%d,"module_height":%s,"module_width":%s,"quiet_zone":%s,"text_distance":%s,"write_text":%t}`,
		bc.FontSize,
		canonNum(bc.ModuleHeight),
		canonNum(bc.ModuleWidth),
		canonNum(bc.QuietZone),
		canonNum(bc.TextDistance),
		bc.WriteText,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func canonNum(d decimal.Decimal) string {
	f, _ := d.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}
