package dto

import "github.com/shopspring/decimal"

// TotalesPeriodo aggregates the filtered record set. The variance sums fold
// in each record's movement ledger, so the aggregation is I/O-dependent.
type TotalesPeriodo struct {
	CashSales       decimal.Decimal `json:"cashSales"`
	CardSales       decimal.Decimal `json:"cardSales"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	CashVarianceSum decimal.Decimal `json:"cashVarianceSum"`
	CardVarianceSum decimal.Decimal `json:"cardVarianceSum"`
	// Cuadrado: the period is balanced iff both variance sums are exactly zero.
	Cuadrado bool `json:"cuadrado"`
}

type HistorialResponse struct {
	Location  string             `json:"location"`
	Periodo   string             `json:"periodo"`
	Registros []RegistroResponse `json:"registros"`
	Totales   TotalesPeriodo     `json:"totales"`
}
