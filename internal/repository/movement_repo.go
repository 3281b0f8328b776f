package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/model"
)

func movementsKey(location, date string) string {
	return fmt.Sprintf("movements_%s_%s", location, date)
}

// MovementRepository persists the whole movement ledger of a (location, date)
// under one key, as the original system did. The version token returned by
// GetLedger must be passed back to SaveLedger: a concurrent writer between
// the read and the write surfaces as a conflict instead of a lost update.
type MovementRepository interface {
	GetLedger(ctx context.Context, location, date string) ([]model.Movement, int64, error)
	SaveLedger(ctx context.Context, location, date string, movements []model.Movement, version int64) error
	Delete(ctx context.Context, location, date string) error
}

type movementRepo struct{ kv KVStore }

func NewMovementRepository(kv KVStore) MovementRepository {
	return &movementRepo{kv: kv}
}

func (r *movementRepo) GetLedger(ctx context.Context, location, date string) ([]model.Movement, int64, error) {
	raw, version, err := r.kv.GetWithVersion(ctx, movementsKey(location, date))
	if err != nil {
		return nil, 0, err
	}
	if raw == nil {
		return nil, 0, nil
	}
	var movements []model.Movement
	if err := json.Unmarshal(raw, &movements); err != nil {
		return nil, 0, apperr.Persistence("libro de movimientos corrupto", err)
	}
	return movements, version, nil
}

func (r *movementRepo) SaveLedger(ctx context.Context, location, date string, movements []model.Movement, version int64) error {
	if movements == nil {
		movements = []model.Movement{}
	}
	raw, err := json.Marshal(movements)
	if err != nil {
		return apperr.Persistence("serializar movimientos", err)
	}
	return r.kv.SetIfVersion(ctx, movementsKey(location, date), raw, version)
}

func (r *movementRepo) Delete(ctx context.Context, location, date string) error {
	return r.kv.Delete(ctx, movementsKey(location, date))
}
