package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/model"
)

// Key scheme inherited from the original key-value layout. Changing it would
// orphan every record written by the hosted predecessor.
func recordKey(location, date string) string {
	return fmt.Sprintf("daily_record_%s_%s", location, date)
}

func recordPrefix(location string) string {
	return fmt.Sprintf("daily_record_%s_", location)
}

type DailyRecordRepository interface {
	// Get returns the record for (location, date), or (nil, nil) when absent —
	// absence is the "not opened" lifecycle state, not an error.
	Get(ctx context.Context, location, date string) (*model.DailyRecord, error)
	Save(ctx context.Context, rec *model.DailyRecord) error
	Delete(ctx context.Context, location, date string) error
	ListByLocation(ctx context.Context, location string) ([]model.DailyRecord, error)
}

type recordRepo struct{ kv KVStore }

func NewDailyRecordRepository(kv KVStore) DailyRecordRepository {
	return &recordRepo{kv: kv}
}

func (r *recordRepo) Get(ctx context.Context, location, date string) (*model.DailyRecord, error) {
	raw, err := r.kv.Get(ctx, recordKey(location, date))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var rec model.DailyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperr.Persistence("registro diario corrupto", err)
	}
	return &rec, nil
}

func (r *recordRepo) Save(ctx context.Context, rec *model.DailyRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return apperr.Persistence("serializar registro diario", err)
	}
	return r.kv.Set(ctx, recordKey(rec.Location, rec.Date), raw)
}

func (r *recordRepo) Delete(ctx context.Context, location, date string) error {
	return r.kv.Delete(ctx, recordKey(location, date))
}

func (r *recordRepo) ListByLocation(ctx context.Context, location string) ([]model.DailyRecord, error) {
	raws, err := r.kv.GetByPrefix(ctx, recordPrefix(location))
	if err != nil {
		return nil, err
	}
	records := make([]model.DailyRecord, 0, len(raws))
	for _, raw := range raws {
		var rec model.DailyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, apperr.Persistence("registro diario corrupto", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
