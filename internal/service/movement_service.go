package service

import (
	"context"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"
)

const (
	historyDefaultLimit = 150
	historyMaxLimit     = 500
)

type MovementService interface {
	History(ctx context.Context, limit int) (*dto.MovementListResponse, error)
}

type movementService struct {
	repo repository.MovementRepository
}

func NewMovementService(repo repository.MovementRepository) MovementService {
	return &movementService{repo: repo}
}

// History returns the newest-first movement ledger. The limit is clamped to
// [1, 500]; zero or negative values fall back to the default page size.
func (s *movementService) History(ctx context.Context, limit int) (*dto.MovementListResponse, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	rows, err := s.repo.ListHistory(ctx, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementEntry, 0, len(rows))
	for _, row := range rows {
		data = append(data, dto.MovementEntry{
			Ts:          formatTs(row.Ts),
			Action:      row.Action,
			SKU:         row.SKU,
			Name:        row.Name,
			MachineName: row.MachineName,
			Note:        row.Note,
		})
	}
	return &dto.MovementListResponse{Data: data, Limit: limit}, nil
}
