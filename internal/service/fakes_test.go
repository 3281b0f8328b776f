package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/infra"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/repository"
)

// ── In-memory DailyRecordRepository ──────────────────────────────────────────

type memRecordRepo struct {
	records map[string]model.DailyRecord
	failing bool
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: map[string]model.DailyRecord{}}
}

func (r *memRecordRepo) Get(_ context.Context, location, date string) (*model.DailyRecord, error) {
	if r.failing {
		return nil, apperr.Persistence("kv get", errors.New("store down"))
	}
	rec, ok := r.records[model.RecordID(location, date)]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (r *memRecordRepo) Save(_ context.Context, rec *model.DailyRecord) error {
	if r.failing {
		return apperr.Persistence("kv set", errors.New("store down"))
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *memRecordRepo) Delete(_ context.Context, location, date string) error {
	delete(r.records, model.RecordID(location, date))
	return nil
}

func (r *memRecordRepo) ListByLocation(_ context.Context, location string) ([]model.DailyRecord, error) {
	out := make([]model.DailyRecord, 0)
	for _, rec := range r.records {
		if rec.Location == location {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ repository.DailyRecordRepository = (*memRecordRepo)(nil)

// ── In-memory MovementRepository ─────────────────────────────────────────────

type memMovementRepo struct {
	ledgers    map[string][]model.Movement
	versions   map[string]int64
	deleteFail bool
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{
		ledgers:  map[string][]model.Movement{},
		versions: map[string]int64{},
	}
}

func ledgerKey(location, date string) string { return location + "|" + date }

func (r *memMovementRepo) GetLedger(_ context.Context, location, date string) ([]model.Movement, int64, error) {
	k := ledgerKey(location, date)
	return append([]model.Movement(nil), r.ledgers[k]...), r.versions[k], nil
}

func (r *memMovementRepo) SaveLedger(_ context.Context, location, date string, movements []model.Movement, version int64) error {
	k := ledgerKey(location, date)
	if r.versions[k] != version {
		return apperr.Conflict("el registro fue modificado por otra operación")
	}
	r.ledgers[k] = append([]model.Movement(nil), movements...)
	r.versions[k]++
	return nil
}

func (r *memMovementRepo) Delete(_ context.Context, location, date string) error {
	if r.deleteFail {
		return apperr.Persistence("kv delete", errors.New("store down"))
	}
	k := ledgerKey(location, date)
	delete(r.ledgers, k)
	delete(r.versions, k)
	return nil
}

var _ repository.MovementRepository = (*memMovementRepo)(nil)

// ── Stub sales-totals provider ───────────────────────────────────────────────

type stubSales struct {
	totals infra.SalesTotals
	err    error
}

func (s *stubSales) DailyTotals(context.Context, string, string) (infra.SalesTotals, error) {
	return s.totals, s.err
}

// ── In-memory UsuarioRepository ──────────────────────────────────────────────

type memUsuarioRepo struct {
	byEmail map[string]*model.Usuario
}

func newMemUsuarioRepo() *memUsuarioRepo {
	return &memUsuarioRepo{byEmail: map[string]*model.Usuario{}}
}

func (r *memUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return errors.New("duplicate email")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	u, ok := r.byEmail[email]
	if !ok || !u.Activo {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *memUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return nil
}

var _ repository.UsuarioRepository = (*memUsuarioRepo)(nil)
