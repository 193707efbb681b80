package dto

import "github.com/shopspring/decimal"

// BarcodeSettings are the Code128 rendering parameters. They feed the label
// settings hash, so the decimal values are kept exact end to end.
type BarcodeSettings struct {
	ModuleWidth  decimal.Decimal `json:"module_width"`
	ModuleHeight decimal.Decimal `json:"module_height"`
	QuietZone    decimal.Decimal `json:"quiet_zone"`
	FontSize     int             `json:"font_size"`
	TextDistance decimal.Decimal `json:"text_distance"`
	WriteText    bool            `json:"write_text"`
}

type SettingsResponse struct {
	WarnDays     int             `json:"warn_days"`
	AlarmDays    int             `json:"alarm_days"`
	Barcode      BarcodeSettings `json:"barcode"`
	SettingsHash string          `json:"settings_hash"`
}

// UpdateSettingsRequest replaces the whole settings group atomically.
// Validation beyond the tags (warn < alarm) happens in the service.
type UpdateSettingsRequest struct {
	WarnDays     int             `json:"warn_days" validate:"required,gt=0"`
	AlarmDays    int             `json:"alarm_days" validate:"required,gt=0"`
	ModuleWidth  decimal.Decimal `json:"module_width" validate:"required,gt=0"`
	ModuleHeight decimal.Decimal `json:"module_height" validate:"required,gt=0"`
	QuietZone    decimal.Decimal `json:"quiet_zone" validate:"required,gt=0"`
	FontSize     int             `json:"font_size" validate:"required,gt=0"`
	TextDistance decimal.Decimal `json:"text_distance" validate:"required,gt=0"`
	WriteText    bool            `json:"write_text"`
}
