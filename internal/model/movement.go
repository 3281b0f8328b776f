package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types. Entrada adds cash to the drawer, salida removes it.
const (
	MovEntrada = "entrada"
	MovSalida  = "salida"
)

// Movement is a manual, non-sales cash adjustment recorded during the day.
// The ledger for a (location, date) is persisted as a whole JSON array under
// a single key; edits rewrite the list under an optimistic version token.
type Movement struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Location  string          `json:"location"`
	Type      string          `json:"type"` // entrada | salida
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	User      string          `json:"user"`
	Timestamp time.Time       `json:"timestamp"`
}

// Signed returns the movement's contribution to expected cash:
// +amount for entrada, -amount for salida.
func (m Movement) Signed() decimal.Decimal {
	if m.Type == MovSalida {
		return m.Amount.Neg()
	}
	return m.Amount
}
