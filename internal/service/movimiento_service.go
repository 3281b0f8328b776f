package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/metrics"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/repository"
)

type MovimientoService interface {
	Agregar(ctx context.Context, req dto.AgregarMovimientoRequest, user string) (*dto.MovimientoResponse, error)
	Editar(ctx context.Context, location, date, movementID string, req dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error)
	Eliminar(ctx context.Context, location, date, movementID string) error
	Listar(ctx context.Context, location, date string) (*dto.ListaMovimientosResponse, error)
}

type movimientoService struct {
	movements repository.MovementRepository
}

func NewMovimientoService(movements repository.MovementRepository) MovimientoService {
	return &movimientoService{movements: movements}
}

// Agregar validates and appends one movement. The ledger is persisted as a
// whole list, so the write carries the version read alongside the list: a
// concurrent editor surfaces as a conflict rather than a silent lost update.
func (s *movimientoService) Agregar(ctx context.Context, req dto.AgregarMovimientoRequest, user string) (*dto.MovimientoResponse, error) {
	reason := normalizeReason(req.Reason)
	if reason == "" {
		return nil, apperr.Validation("el motivo del movimiento es obligatorio")
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("el importe debe ser mayor que cero")
	}

	movs, version, err := s.movements.GetLedger(ctx, req.Location, req.Date)
	if err != nil {
		return nil, err
	}

	mov := model.Movement{
		ID:        uuid.NewString(),
		Date:      req.Date,
		Location:  req.Location,
		Type:      req.Type,
		Amount:    req.Amount.Round(2),
		Reason:    reason,
		User:      user,
		Timestamp: time.Now().UTC(),
	}
	movs = append(movs, mov)

	if err := s.saveLedger(ctx, req.Location, req.Date, movs, version); err != nil {
		return nil, err
	}

	metrics.MovimientosRegistrados.WithLabelValues(req.Type).Inc()
	resp := toMovimientoResponse(mov)
	return &resp, nil
}

// Editar replaces a movement in place, keeping its id but stamping it with a
// fresh timestamp — the edited entry moves in the chronological view.
func (s *movimientoService) Editar(ctx context.Context, location, date, movementID string, req dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error) {
	reason := normalizeReason(req.Reason)
	if reason == "" {
		return nil, apperr.Validation("el motivo del movimiento es obligatorio")
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("el importe debe ser mayor que cero")
	}

	movs, version, err := s.movements.GetLedger(ctx, location, date)
	if err != nil {
		return nil, err
	}

	idx := indexOf(movs, movementID)
	if idx < 0 {
		return nil, apperr.NotFound("movimiento %s no encontrado", movementID)
	}

	updated := movs[idx]
	updated.Type = req.Type
	updated.Amount = req.Amount.Round(2)
	updated.Reason = reason
	updated.Timestamp = time.Now().UTC()
	movs[idx] = updated

	if err := s.saveLedger(ctx, location, date, movs, version); err != nil {
		return nil, err
	}
	resp := toMovimientoResponse(updated)
	return &resp, nil
}

// Eliminar removes a movement by id. An unknown id is surfaced as not-found —
// the predecessor silently no-opped here, which hid typos in the id.
func (s *movimientoService) Eliminar(ctx context.Context, location, date, movementID string) error {
	movs, version, err := s.movements.GetLedger(ctx, location, date)
	if err != nil {
		return err
	}

	idx := indexOf(movs, movementID)
	if idx < 0 {
		return apperr.NotFound("movimiento %s no encontrado", movementID)
	}
	movs = append(movs[:idx], movs[idx+1:]...)

	return s.saveLedger(ctx, location, date, movs, version)
}

// Listar returns the ledger newest-first for display. The reconciliation sum
// itself is order-independent.
func (s *movimientoService) Listar(ctx context.Context, location, date string) (*dto.ListaMovimientosResponse, error) {
	movs, _, err := s.movements.GetLedger(ctx, location, date)
	if err != nil {
		return nil, err
	}

	sort.Slice(movs, func(i, j int) bool {
		return movs[i].Timestamp.After(movs[j].Timestamp)
	})

	resp := &dto.ListaMovimientosResponse{Movements: make([]dto.MovimientoResponse, 0, len(movs))}
	for _, m := range movs {
		resp.Movements = append(resp.Movements, toMovimientoResponse(m))
	}
	return resp, nil
}

func (s *movimientoService) saveLedger(ctx context.Context, location, date string, movs []model.Movement, version int64) error {
	err := s.movements.SaveLedger(ctx, location, date, movs, version)
	if apperr.IsConflict(err) {
		metrics.ConflictosLedger.Inc()
	}
	return err
}

func indexOf(movs []model.Movement, id string) int {
	for i, m := range movs {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func toMovimientoResponse(m model.Movement) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:        m.ID,
		Date:      m.Date,
		Location:  m.Location,
		Type:      m.Type,
		Amount:    m.Amount,
		Reason:    m.Reason,
		User:      m.User,
		Timestamp: m.Timestamp.Format(time.RFC3339),
	}
}
