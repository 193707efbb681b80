package repository

import (
	"context"
	"errors"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository stores the global key/value settings. Missing keys read
// as empty strings; the service layer substitutes defaults.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
	UpsertTx(tx *gorm.DB, key, value string) error
	// EnsureDefault writes the value only when the key does not exist yet.
	EnsureDefault(ctx context.Context, key, value string) error
	DB() *gorm.DB
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context, key string) (string, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *settingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	var settings []model.Setting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, key, value string) error {
	return r.UpsertTx(r.db.WithContext(ctx), key, value)
}

func (r *settingsRepo) UpsertTx(tx *gorm.DB, key, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingsRepo) EnsureDefault(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingsRepo) DB() *gorm.DB { return r.db }
