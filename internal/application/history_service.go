package application

import (
	"context"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

type HistoryService struct {
	History repository.HistoryRepository
}

func NewHistoryService(history repository.HistoryRepository) *HistoryService {
	return &HistoryService{History: history}
}

// List returns every snapshot of the owner's entities of type t, newest first.
func (s *HistoryService) List(ctx context.Context, ownerID string, t entity.EntityType) ([]entity.HistoryRecord, error) {
	return s.History.List(ctx, repository.HistoryFilter{EntityType: t, OwnerID: ownerID})
}

// ForEntity returns the snapshots of one entity. No visible snapshot means ErrNotFound.
func (s *HistoryService) ForEntity(ctx context.Context, ownerID string, t entity.EntityType, id int64) ([]entity.HistoryRecord, error) {
	recs, err := s.History.List(ctx, repository.HistoryFilter{EntityType: t, OwnerID: ownerID, EntityID: id})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs, nil
}
