package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/model"
)

// memKV mirrors the Postgres-backed store's contract: versioned rows,
// conditional writes, prefix scan in key order.
type memKV struct {
	values   map[string]json.RawMessage
	versions map[string]int64
}

func newMemKV() *memKV {
	return &memKV{values: map[string]json.RawMessage{}, versions: map[string]int64{}}
}

func (s *memKV) Get(_ context.Context, key string) (json.RawMessage, error) {
	return s.values[key], nil
}

func (s *memKV) GetWithVersion(_ context.Context, key string) (json.RawMessage, int64, error) {
	return s.values[key], s.versions[key], nil
}

func (s *memKV) Set(_ context.Context, key string, value json.RawMessage) error {
	s.values[key] = value
	s.versions[key]++
	return nil
}

func (s *memKV) SetIfVersion(_ context.Context, key string, value json.RawMessage, version int64) error {
	if s.versions[key] != version {
		return apperr.Conflict("el registro fue modificado por otra operación")
	}
	s.values[key] = value
	s.versions[key]++
	return nil
}

func (s *memKV) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	delete(s.versions, key)
	return nil
}

func (s *memKV) GetByPrefix(_ context.Context, prefix string) ([]json.RawMessage, error) {
	keys := make([]string, 0)
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys) // key ASC, like the real store
	out := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.values[k])
	}
	return out, nil
}

var _ KVStore = (*memKV)(nil)

// ── Key scheme ────────────────────────────────────────────────────────────────

func TestEsquemaDeClaves(t *testing.T) {
	// The composite keys must match the layout written by the predecessor
	// system, or its data becomes unreachable.
	assert.Equal(t, "daily_record_centro_2026-03-15", recordKey("centro", "2026-03-15"))
	assert.Equal(t, "daily_record_centro_", recordPrefix("centro"))
	assert.Equal(t, "movements_centro_2026-03-15", movementsKey("centro", "2026-03-15"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `daily\_record\_centro\_`, escapeLike("daily_record_centro_"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
}

// ── DailyRecordRepository ─────────────────────────────────────────────────────

func TestRecordRepoAusenteEsNil(t *testing.T) {
	repo := NewDailyRecordRepository(newMemKV())

	rec, err := repo.Get(context.Background(), "centro", "2026-03-15")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecordRepoRoundTrip(t *testing.T) {
	repo := NewDailyRecordRepository(newMemKV())
	ctx := context.Background()

	rec := &model.DailyRecord{
		ID:          model.RecordID("centro", "2026-03-15"),
		Date:        "2026-03-15",
		Location:    "centro",
		User:        "ana",
		OpeningCash: decimal.NewFromInt(100),
		Estado:      model.EstadoAbierta,
		OpenedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "centro", "2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, rec.OpeningCash.Equal(got.OpeningCash))
	assert.Equal(t, model.EstadoAbierta, got.Estado)

	require.NoError(t, repo.Delete(ctx, "centro", "2026-03-15"))
	got, err = repo.Get(ctx, "centro", "2026-03-15")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordRepoListaPorUbicacion(t *testing.T) {
	repo := NewDailyRecordRepository(newMemKV())
	ctx := context.Background()

	for _, d := range []string{"2026-03-13", "2026-03-14", "2026-03-15"} {
		require.NoError(t, repo.Save(ctx, &model.DailyRecord{
			ID: model.RecordID("centro", d), Date: d, Location: "centro",
			Estado: model.EstadoAbierta,
		}))
	}
	require.NoError(t, repo.Save(ctx, &model.DailyRecord{
		ID: model.RecordID("norte", "2026-03-15"), Date: "2026-03-15", Location: "norte",
		Estado: model.EstadoAbierta,
	}))

	records, err := repo.ListByLocation(ctx, "centro")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "centro", r.Location)
	}
}

// ── MovementRepository ────────────────────────────────────────────────────────

func TestLedgerAusenteEsVacioConVersionCero(t *testing.T) {
	repo := NewMovementRepository(newMemKV())

	movs, version, err := repo.GetLedger(context.Background(), "centro", "2026-03-15")
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Zero(t, version)
}

func TestLedgerVersionadoDetectaEscrituraConcurrente(t *testing.T) {
	repo := NewMovementRepository(newMemKV())
	ctx := context.Background()

	mov := model.Movement{
		ID: "m1", Date: "2026-03-15", Location: "centro",
		Type: model.MovEntrada, Amount: decimal.NewFromInt(20),
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveLedger(ctx, "centro", "2026-03-15", []model.Movement{mov}, 0))

	movs, version, err := repo.GetLedger(ctx, "centro", "2026-03-15")
	require.NoError(t, err)
	require.Len(t, movs, 1)

	// Writer B commits first.
	require.NoError(t, repo.SaveLedger(ctx, "centro", "2026-03-15", movs, version))

	// Writer A still holds the old version — the write must not silently win.
	err = repo.SaveLedger(ctx, "centro", "2026-03-15", movs, version)
	assert.True(t, apperr.IsConflict(err))
}

func TestLedgerNilSePersisteComoListaVacia(t *testing.T) {
	kv := newMemKV()
	repo := NewMovementRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.SaveLedger(ctx, "centro", "2026-03-15", nil, 0))

	raw, err := kv.Get(ctx, movementsKey("centro", "2026-03-15"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}
