package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository owns usage sessions and unique usage days, the two tables
// the usage accountant derives its counters from.
type UsageRepository interface {
	// OpenSession returns the most recent session with no returned_ts, or
	// (nil, nil) when none is open.
	OpenSession(ctx context.Context, swabID int64) (*model.UsageSession, error)
	OpenSessionTx(tx *gorm.DB, swabID int64) (*model.UsageSession, error)
	CreateSessionTx(tx *gorm.DB, s *model.UsageSession) error
	CloseSessionTx(tx *gorm.DB, sessionID int64, returnedTs time.Time) error
	// InsertDaysTx inserts the given day keys for the swab, silently skipping
	// days already present, and returns how many were newly added.
	InsertDaysTx(tx *gorm.DB, swabID int64, days []string) (int, error)
	CountDays(ctx context.Context, swabID int64) (int, error)
	CountDaysTx(tx *gorm.DB, swabID int64) (int, error)
}

type usageRepo struct{ db *gorm.DB }

func NewUsageRepository(db *gorm.DB) UsageRepository { return &usageRepo{db: db} }

func (r *usageRepo) OpenSession(ctx context.Context, swabID int64) (*model.UsageSession, error) {
	return r.OpenSessionTx(r.db.WithContext(ctx), swabID)
}

func (r *usageRepo) OpenSessionTx(tx *gorm.DB, swabID int64) (*model.UsageSession, error) {
	var s model.UsageSession
	err := tx.Where("swab_id = ? AND returned_ts IS NULL", swabID).
		Order("taken_ts DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *usageRepo) CreateSessionTx(tx *gorm.DB, s *model.UsageSession) error {
	return tx.Create(s).Error
}

func (r *usageRepo) CloseSessionTx(tx *gorm.DB, sessionID int64, returnedTs time.Time) error {
	return tx.Model(&model.UsageSession{}).Where("id = ?", sessionID).
		Update("returned_ts", returnedTs).Error
}

func (r *usageRepo) InsertDaysTx(tx *gorm.DB, swabID int64, days []string) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}
	rows := make([]model.UsageDay, 0, len(days))
	for _, d := range days {
		rows = append(rows, model.UsageDay{SwabID: swabID, Day: d})
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *usageRepo) CountDays(ctx context.Context, swabID int64) (int, error) {
	return r.CountDaysTx(r.db.WithContext(ctx), swabID)
}

func (r *usageRepo) CountDaysTx(tx *gorm.DB, swabID int64) (int, error) {
	var count int64
	err := tx.Model(&model.UsageDay{}).Where("swab_id = ?", swabID).Count(&count).Error
	return int(count), err
}
