package dto

import "github.com/shopspring/decimal"

type AgregarMovimientoRequest struct {
	Location string          `json:"location" validate:"required"`
	Date     string          `json:"date"     validate:"required,datetime=2006-01-02"`
	Type     string          `json:"type"     validate:"required,oneof=entrada salida"`
	Amount   decimal.Decimal `json:"amount"   validate:"required,gt=0"`
	Reason   string          `json:"reason"   validate:"required"`
}

// EditarMovimientoRequest replaces the editable fields of one movement.
// The movement keeps its id but receives a fresh timestamp, so editing
// repositions it in the chronological view — accepted product behavior.
type EditarMovimientoRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=entrada salida"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Reason string          `json:"reason" validate:"required"`
}

type MovimientoResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Location  string          `json:"location"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	User      string          `json:"user"`
	Timestamp string          `json:"timestamp"`
}

type ListaMovimientosResponse struct {
	Movements []MovimientoResponse `json:"movements"`
}
