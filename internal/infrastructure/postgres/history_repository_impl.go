package postgres

import (
	"context"

	"github.com/oksasatya/recipe-api/internal/domain/entity"
	"github.com/oksasatya/recipe-api/internal/domain/repository"
)

type HistoryRepository struct {
	db DB
}

func NewHistoryRepository(db DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, h *entity.HistoryRecord) error {
	return conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO history_records (entity_type, entity_id, owner_id, change_type, changed_by, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, changed_at
	`, string(h.EntityType), h.EntityID, h.OwnerID, string(h.ChangeType), h.ChangedBy, []byte(h.Snapshot)).
		Scan(&h.ID, &h.ChangedAt)
}

func (r *HistoryRepository) List(ctx context.Context, f repository.HistoryFilter) ([]entity.HistoryRecord, error) {
	q := newSelect("h.id, h.entity_type, h.entity_id, h.owner_id, h.change_type, h.changed_by, h.changed_at, h.snapshot",
		"history_records h").apply(
		eq("h.entity_type", string(f.EntityType)),
		scopeToOwner("h.owner_id", f.OwnerID),
	)
	if f.EntityID != 0 {
		q.apply(eq("h.entity_id", f.EntityID))
	}
	q.apply(orderBy("h.changed_at DESC, h.id DESC"))

	rows, err := conn(ctx, r.db).Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.HistoryRecord{}
	for rows.Next() {
		var (
			h                  entity.HistoryRecord
			entityType, change string
			snapshot           []byte
		)
		if err := rows.Scan(&h.ID, &entityType, &h.EntityID, &h.OwnerID, &change, &h.ChangedBy, &h.ChangedAt, &snapshot); err != nil {
			return nil, err
		}
		h.EntityType = entity.EntityType(entityType)
		h.ChangeType = entity.ChangeType(change)
		h.Snapshot = snapshot
		out = append(out, h)
	}
	return out, rows.Err()
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)
