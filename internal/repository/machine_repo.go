package repository

import (
	"context"
	"errors"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
)

type MachineRepository interface {
	Create(ctx context.Context, m *model.Machine) error
	FindByID(ctx context.Context, id int64) (*model.Machine, error)
	List(ctx context.Context) ([]model.Machine, error)
	Delete(ctx context.Context, id int64) error
	// InUse reports whether any swab state currently references the machine
	// as its checkout location.
	InUse(ctx context.Context, id int64) (bool, error)
	ExistsTx(tx *gorm.DB, id int64) (bool, error)
	FindByIDTx(tx *gorm.DB, id int64) (*model.Machine, error)
}

type machineRepo struct{ db *gorm.DB }

func NewMachineRepository(db *gorm.DB) MachineRepository { return &machineRepo{db: db} }

func (r *machineRepo) Create(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineRepo) FindByID(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *machineRepo) List(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	err := r.db.WithContext(ctx).Order("lower(name)").Find(&machines).Error
	return machines, err
}

func (r *machineRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Machine{}, id).Error
}

func (r *machineRepo) InUse(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SwabState{}).
		Where("machine_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *machineRepo) ExistsTx(tx *gorm.DB, id int64) (bool, error) {
	_, err := r.FindByIDTx(tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *machineRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.Machine, error) {
	var m model.Machine
	err := tx.First(&m, id).Error
	return &m, err
}
