package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
)

// MovementHistoryRow is one joined row of the newest-first history listing.
type MovementHistoryRow struct {
	Ts          time.Time
	Action      string
	SKU         string `gorm:"column:sku"`
	Name        string
	MachineName *string
	Note        string
}

// MovementRepository is the append-only ledger. There are no update or delete
// operations on individual rows; deletion only cascades with the swab.
type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movement) error
	// LastActionTs returns the timestamp of the most recent movement with the
	// given action, or nil when the swab has none.
	LastActionTs(ctx context.Context, swabID int64, action string) (*time.Time, error)
	ListHistory(ctx context.Context, limit int) ([]MovementHistoryRow, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.Movement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) LastActionTs(ctx context.Context, swabID int64, action string) (*time.Time, error) {
	var m model.Movement
	err := r.db.WithContext(ctx).
		Where("swab_id = ? AND action = ?", swabID, action).
		Order("ts DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m.Ts, nil
}

func (r *movementRepo) ListHistory(ctx context.Context, limit int) ([]MovementHistoryRow, error) {
	var rows []MovementHistoryRow
	err := r.db.WithContext(ctx).Raw(`
SELECT mv.ts, mv.action, sw.sku, sw.name,
       mc.name AS machine_name,
       COALESCE(mv.note, '') AS note
FROM movements mv
JOIN swabs sw ON sw.id = mv.swab_id
LEFT JOIN machines mc ON mc.id = mv.machine_id
ORDER BY mv.ts DESC
LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}
