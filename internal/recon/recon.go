// Package recon implements the daily cash reconciliation arithmetic: expected
// cash, cash variance against the drawer count, and card variance against the
// datafone settlement. Pure computation — no I/O, no side effects.
//
// All results are rounded to cents before comparison. Balanced means exact
// zero after rounding; there is deliberately no tolerance band, so float-style
// leniency can never mask a real shortage.
package recon

import (
	"github.com/shopspring/decimal"

	"github.com/jjatencia/cashflow/internal/model"
)

// ExpectedCash computes the cash that should be in the drawer at close:
//
//	openingCash + cashSales + Σ(signed movement amounts)
//
// Only movements belonging to the record's (location, date) are counted.
// Movements are not filtered by wall-clock order — every movement logged for
// the date contributes, and the sum is order-independent.
func ExpectedCash(rec model.ClosedRecord, movements []model.Movement) decimal.Decimal {
	total := rec.OpeningCash.Add(rec.CashSales)
	for _, m := range movements {
		if m.Location != rec.Location || m.Date != rec.Date {
			continue
		}
		total = total.Add(m.Signed())
	}
	return total.Round(2)
}

// CashVariance is finalCashCount − expected cash. Zero means balanced;
// positive is a surplus, negative a shortage.
func CashVariance(rec model.ClosedRecord, movements []model.Movement) decimal.Decimal {
	return rec.FinalCashCount.Round(2).Sub(ExpectedCash(rec, movements))
}

// CardVariance is declared card sales minus the datafone settlement total.
// Movements never participate — card money does not pass through the drawer.
func CardVariance(rec model.ClosedRecord) decimal.Decimal {
	return rec.CardSales.Sub(rec.DatafoneSales).Round(2)
}

// IsBalanced reports whether both variances are exactly zero.
func IsBalanced(rec model.ClosedRecord, movements []model.Movement) bool {
	return CashVariance(rec, movements).IsZero() && CardVariance(rec).IsZero()
}

// Summary bundles the full reconciliation result for one closed record.
type Summary struct {
	ExpectedCash decimal.Decimal `json:"expectedCash"`
	CashVariance decimal.Decimal `json:"cashVariance"`
	CardVariance decimal.Decimal `json:"cardVariance"`
	Balanced     bool            `json:"balanced"`
}

// Summarize computes the complete reconciliation for a closed record.
func Summarize(rec model.ClosedRecord, movements []model.Movement) Summary {
	cashVar := CashVariance(rec, movements)
	cardVar := CardVariance(rec)
	return Summary{
		ExpectedCash: ExpectedCash(rec, movements),
		CashVariance: cashVar,
		CardVariance: cardVar,
		Balanced:     cashVar.IsZero() && cardVar.IsZero(),
	}
}
