package service

import (
	"context"
	"errors"
	"strings"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/model"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"gorm.io/gorm"
)

type MachineService interface {
	Create(ctx context.Context, req dto.CreateMachineRequest) (*dto.MachineOption, error)
	List(ctx context.Context) ([]dto.MachineOption, error)
	Delete(ctx context.Context, id int64) error
}

type machineService struct {
	repo repository.MachineRepository
}

func NewMachineService(repo repository.MachineRepository) MachineService {
	return &machineService{repo: repo}
}

func (s *machineService) Create(ctx context.Context, req dto.CreateMachineRequest) (*dto.MachineOption, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if strings.EqualFold(m.Name, name) {
			return nil, ErrMachineTaken
		}
	}

	machine := &model.Machine{Name: name}
	if err := s.repo.Create(ctx, machine); err != nil {
		return nil, err
	}
	return &dto.MachineOption{ID: machine.ID, Name: machine.Name}, nil
}

func (s *machineService) List(ctx context.Context) ([]dto.MachineOption, error) {
	machines, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]dto.MachineOption, 0, len(machines))
	for _, m := range machines {
		options = append(options, dto.MachineOption{ID: m.ID, Name: m.Name})
	}
	return options, nil
}

// Delete refuses to remove a machine while any checked-out swab still points
// at it, so the listing never shows a dangling location.
func (s *machineService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMachineNotFound
		}
		return err
	}
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrMachineInUse
	}
	return s.repo.Delete(ctx, id)
}
