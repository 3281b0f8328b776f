package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jjatencia/cashflow/internal/recon"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	Location    string          `json:"location"    validate:"required"`
	Date        string          `json:"date"        validate:"required,datetime=2006-01-02"`
	OpeningCash decimal.Decimal `json:"openingCash" validate:"min=0"`
}

type CerrarCajaRequest struct {
	Location       string          `json:"location"       validate:"required"`
	Date           string          `json:"date"           validate:"required,datetime=2006-01-02"`
	CashSales      decimal.Decimal `json:"cashSales"      validate:"min=0"`
	CardSales      decimal.Decimal `json:"cardSales"      validate:"min=0"`
	DatafoneSales  decimal.Decimal `json:"datafoneSales"  validate:"min=0"`
	FinalCashCount decimal.Decimal `json:"finalCashCount" validate:"min=0"`
}

// CorregirCajaRequest amends any subset of the numeric fields of a closed
// record. Nil fields are left untouched. There is no audit trail of prior
// values — an accepted product limitation.
type CorregirCajaRequest struct {
	Location       string           `json:"location" validate:"required"`
	Date           string           `json:"date"     validate:"required,datetime=2006-01-02"`
	OpeningCash    *decimal.Decimal `json:"openingCash"`
	CashSales      *decimal.Decimal `json:"cashSales"`
	CardSales      *decimal.Decimal `json:"cardSales"`
	DatafoneSales  *decimal.Decimal `json:"datafoneSales"`
	FinalCashCount *decimal.Decimal `json:"finalCashCount"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegistroResponse struct {
	ID             string           `json:"id"`
	Date           string           `json:"date"`
	Location       string           `json:"location"`
	User           string           `json:"user"`
	OpeningCash    decimal.Decimal  `json:"openingCash"`
	CashSales      *decimal.Decimal `json:"cashSales"`
	CardSales      *decimal.Decimal `json:"cardSales"`
	DatafoneSales  *decimal.Decimal `json:"datafoneSales"`
	FinalCashCount *decimal.Decimal `json:"finalCashCount"`
	Estado         string           `json:"estado"`
	OpenedAt       string           `json:"openedAt"`
	ClosedAt       *string          `json:"closedAt,omitempty"`
}

// CierreResponse is returned by the close operation: the final record plus
// the reconciliation outcome for immediate display.
type CierreResponse struct {
	Registro       RegistroResponse `json:"registro"`
	Reconciliacion recon.Summary    `json:"reconciliacion"`
}

// EstadoCajaResponse is the tagged lifecycle state of a (location, date).
// Registro is null exactly when Estado is "ausente".
type EstadoCajaResponse struct {
	Estado   string            `json:"estado"` // ausente | abierta | cerrada
	Registro *RegistroResponse `json:"registro"`
}

// TotalesSugeridosResponse carries the sales totals fetched from the external
// POS revenue API. Zeros when the provider is unavailable.
type TotalesSugeridosResponse struct {
	Location  string          `json:"location"`
	Date      string          `json:"date"`
	CashSales decimal.Decimal `json:"cashSales"`
	CardSales decimal.Decimal `json:"cardSales"`
	// Degradado flags that the provider failed and the totals defaulted to zero.
	Degradado bool `json:"degradado"`
}
