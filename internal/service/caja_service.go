package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/infra"
	"github.com/jjatencia/cashflow/internal/metrics"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/recon"
	"github.com/jjatencia/cashflow/internal/repository"
	"github.com/jjatencia/cashflow/internal/worker"
)

// SalesTotalsProvider is the external POS revenue API. Implementations are
// expected to be unreliable: callers degrade to zero totals on error.
type SalesTotalsProvider interface {
	DailyTotals(ctx context.Context, location, date string) (infra.SalesTotals, error)
}

type CajaService interface {
	Abrir(ctx context.Context, req dto.AbrirCajaRequest, user string) (*dto.RegistroResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreResponse, error)
	Corregir(ctx context.Context, req dto.CorregirCajaRequest) (*dto.RegistroResponse, error)
	Eliminar(ctx context.Context, location, date string) error
	Estado(ctx context.Context, location, date string) (*dto.EstadoCajaResponse, error)
	TotalesSugeridos(ctx context.Context, location, date string) (*dto.TotalesSugeridosResponse, error)
}

type cajaService struct {
	records    repository.DailyRecordRepository
	movements  repository.MovementRepository
	sales      SalesTotalsProvider
	dispatcher *worker.Dispatcher // nil disables closing-report jobs
}

func NewCajaService(records repository.DailyRecordRepository, movements repository.MovementRepository, sales SalesTotalsProvider, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{records: records, movements: movements, sales: sales, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest, user string) (*dto.RegistroResponse, error) {
	if req.OpeningCash.IsNegative() {
		return nil, apperr.Validation("el fondo de apertura no puede ser negativo")
	}

	// Guard: one record per (location, date) — no double-open. A closed record
	// also blocks reopening; corrections go through Corregir.
	existing, err := s.records.Get(ctx, req.Location, req.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("ya existe una caja para %s el %s", req.Location, req.Date)
	}

	rec := &model.DailyRecord{
		ID:          model.RecordID(req.Location, req.Date),
		Date:        req.Date,
		Location:    req.Location,
		User:        user,
		OpeningCash: req.OpeningCash.Round(2),
		Estado:      model.EstadoAbierta,
		OpenedAt:    time.Now().UTC(),
	}
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}

	metrics.RegistrosAbiertos.Inc()
	resp := toRegistroResponse(rec)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreResponse, error) {
	rec, err := s.records.Get(ctx, req.Location, req.Date)
	if err != nil {
		return nil, err
	}
	state := model.StateOf(rec)
	switch state.Phase {
	case model.PhaseAbsent:
		return nil, apperr.Validation("no hay caja abierta para %s el %s", req.Location, req.Date)
	case model.PhaseClosed:
		return nil, apperr.Validation("la caja ya está cerrada")
	}

	for _, v := range []decimal.Decimal{req.CashSales, req.CardSales, req.DatafoneSales, req.FinalCashCount} {
		if v.IsNegative() {
			return nil, apperr.Validation("los importes de cierre no pueden ser negativos")
		}
	}

	cashSales := req.CashSales.Round(2)
	cardSales := req.CardSales.Round(2)
	datafone := req.DatafoneSales.Round(2)
	finalCount := req.FinalCashCount.Round(2)
	now := time.Now().UTC()

	rec.CashSales = &cashSales
	rec.CardSales = &cardSales
	rec.DatafoneSales = &datafone
	rec.FinalCashCount = &finalCount
	rec.Estado = model.EstadoCerrada
	rec.ClosedAt = &now

	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}

	cierre, err := rec.Cierre()
	if err != nil {
		return nil, apperr.Persistence("registro cerrado inconsistente", err)
	}
	movs, _, err := s.movements.GetLedger(ctx, req.Location, req.Date)
	if err != nil {
		return nil, err
	}
	summary := recon.Summarize(cierre, movs)

	metrics.RegistrosCerrados.Inc()
	if !summary.Balanced {
		metrics.CierresDescuadrados.Inc()
	}

	// Closing report is best-effort: a queue failure never rolls back the close.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCierre(ctx, worker.CierreJobPayload{Location: req.Location, Date: req.Date}); err != nil {
			log.Warn().Err(err).Str("location", req.Location).Str("date", req.Date).
				Msg("cierre report job not enqueued")
		}
	}

	return &dto.CierreResponse{
		Registro:       toRegistroResponse(rec),
		Reconciliacion: summary,
	}, nil
}

// ── Corregir ──────────────────────────────────────────────────────────────────
// Amend a closed record. Overwrites any subset of the numeric fields; prior
// values are not kept anywhere.

func (s *cajaService) Corregir(ctx context.Context, req dto.CorregirCajaRequest) (*dto.RegistroResponse, error) {
	rec, err := s.records.Get(ctx, req.Location, req.Date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("no existe caja para %s el %s", req.Location, req.Date)
	}
	if !rec.Cerrada() {
		return nil, apperr.Validation("solo se puede corregir una caja cerrada")
	}

	patch := []struct {
		src *decimal.Decimal
		dst **decimal.Decimal
	}{
		{req.CashSales, &rec.CashSales},
		{req.CardSales, &rec.CardSales},
		{req.DatafoneSales, &rec.DatafoneSales},
		{req.FinalCashCount, &rec.FinalCashCount},
	}
	if req.OpeningCash != nil {
		if req.OpeningCash.IsNegative() {
			return nil, apperr.Validation("los importes no pueden ser negativos")
		}
		rec.OpeningCash = req.OpeningCash.Round(2)
	}
	for _, p := range patch {
		if p.src == nil {
			continue
		}
		if p.src.IsNegative() {
			return nil, apperr.Validation("los importes no pueden ser negativos")
		}
		rounded := p.src.Round(2)
		*p.dst = &rounded
	}

	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}
	resp := toRegistroResponse(rec)
	return &resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Hard delete of the record AND its whole movement ledger. The KV store has
// no cross-key transaction, so the two deletes are sequenced; when only the
// second fails the caller gets a partial-failure error so it can retry the
// ledger cleanup instead of assuming nothing happened.

func (s *cajaService) Eliminar(ctx context.Context, location, date string) error {
	rec, err := s.records.Get(ctx, location, date)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperr.NotFound("no existe caja para %s el %s", location, date)
	}

	if err := s.records.Delete(ctx, location, date); err != nil {
		return err
	}
	if err := s.movements.Delete(ctx, location, date); err != nil {
		return apperr.PartialFailure("registro eliminado pero el libro de movimientos persiste", err)
	}
	return nil
}

// ── Estado ────────────────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context, location, date string) (*dto.EstadoCajaResponse, error) {
	rec, err := s.records.Get(ctx, location, date)
	if err != nil {
		return nil, err
	}
	state := model.StateOf(rec)
	resp := &dto.EstadoCajaResponse{Estado: state.Phase.String()}
	if state.Record != nil {
		r := toRegistroResponse(state.Record)
		resp.Registro = &r
	}
	return resp, nil
}

// ── TotalesSugeridos ──────────────────────────────────────────────────────────
// Close-time helper: declared totals from the POS revenue API. The provider
// is unreliable — any failure degrades to zeros and never blocks the close.

func (s *cajaService) TotalesSugeridos(ctx context.Context, location, date string) (*dto.TotalesSugeridosResponse, error) {
	resp := &dto.TotalesSugeridosResponse{
		Location:  location,
		Date:      date,
		CashSales: decimal.Zero,
		CardSales: decimal.Zero,
	}
	if s.sales == nil {
		resp.Degradado = true
		return resp, nil
	}
	totals, err := s.sales.DailyTotals(ctx, location, date)
	if err != nil {
		log.Warn().Err(err).Str("location", location).Str("date", date).
			Msg("sales provider unavailable, degrading to zero totals")
		resp.Degradado = true
		return resp, nil
	}
	resp.CashSales = totals.Cash.Round(2)
	resp.CardSales = totals.Card.Round(2)
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func toRegistroResponse(rec *model.DailyRecord) dto.RegistroResponse {
	resp := dto.RegistroResponse{
		ID:             rec.ID,
		Date:           rec.Date,
		Location:       rec.Location,
		User:           rec.User,
		OpeningCash:    rec.OpeningCash,
		CashSales:      rec.CashSales,
		CardSales:      rec.CardSales,
		DatafoneSales:  rec.DatafoneSales,
		FinalCashCount: rec.FinalCashCount,
		Estado:         rec.Estado,
		OpenedAt:       rec.OpenedAt.Format(time.RFC3339),
	}
	if rec.ClosedAt != nil {
		t := rec.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func normalizeReason(reason string) string {
	return strings.TrimSpace(reason)
}
