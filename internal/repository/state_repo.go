package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRepository owns the SwabState projection. A freshly created swab has
// no row yet and defaults to in-stock; both Get variants return that default
// instead of a not-found error.
type StateRepository interface {
	Get(ctx context.Context, swabID int64) (*model.SwabState, error)
	GetTx(tx *gorm.DB, swabID int64) (*model.SwabState, error)
	// UpsertTx writes the projection, forcing MachineID to nil whenever
	// inStock is true and stamping the current time.
	UpsertTx(tx *gorm.DB, swabID int64, inStock bool, machineID *int64) error
}

type stateRepo struct{ db *gorm.DB }

func NewStateRepository(db *gorm.DB) StateRepository { return &stateRepo{db: db} }

func defaultState(swabID int64) *model.SwabState {
	return &model.SwabState{SwabID: swabID, InStock: true}
}

func (r *stateRepo) Get(ctx context.Context, swabID int64) (*model.SwabState, error) {
	return r.GetTx(r.db.WithContext(ctx), swabID)
}

func (r *stateRepo) GetTx(tx *gorm.DB, swabID int64) (*model.SwabState, error) {
	var st model.SwabState
	err := tx.Where("swab_id = ?", swabID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultState(swabID), nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *stateRepo) UpsertTx(tx *gorm.DB, swabID int64, inStock bool, machineID *int64) error {
	if inStock {
		machineID = nil
	}
	st := model.SwabState{
		SwabID:    swabID,
		InStock:   inStock,
		MachineID: machineID,
		UpdatedAt: time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "swab_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"in_stock", "machine_id", "updated_at"}),
	}).Create(&st).Error
}
