package recon_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/recon"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func closedRecord(opening, cash, card, datafone, finalCount string) model.ClosedRecord {
	return model.ClosedRecord{
		Date:           "2026-03-15",
		Location:       "chamberi",
		OpeningCash:    dec(opening),
		CashSales:      dec(cash),
		CardSales:      dec(card),
		DatafoneSales:  dec(datafone),
		FinalCashCount: dec(finalCount),
	}
}

func mov(tipo, amount string) model.Movement {
	return model.Movement{
		ID:       "m1",
		Date:     "2026-03-15",
		Location: "chamberi",
		Type:     tipo,
		Amount:   dec(amount),
	}
}

func TestExpectedCashDiaCuadrado(t *testing.T) {
	// 100 fondo + 250 ventas - 30 salida + 10 entrada = 330
	rec := closedRecord("100", "250", "180", "180", "330")
	movs := []model.Movement{mov(model.MovSalida, "30"), mov(model.MovEntrada, "10")}

	assert.True(t, dec("330").Equal(recon.ExpectedCash(rec, movs)))
	assert.True(t, recon.CashVariance(rec, movs).IsZero())
	assert.True(t, recon.CardVariance(rec).IsZero())
	assert.True(t, recon.IsBalanced(rec, movs))
}

func TestCashVarianceFaltante(t *testing.T) {
	// Drawer counted 320 against an expected 330 → shortage of 10.
	rec := closedRecord("100", "250", "180", "180", "320")
	movs := []model.Movement{mov(model.MovSalida, "30"), mov(model.MovEntrada, "10")}

	assert.True(t, dec("-10").Equal(recon.CashVariance(rec, movs)))
	assert.False(t, recon.IsBalanced(rec, movs))
}

func TestCardVarianceIndependienteDelEfectivo(t *testing.T) {
	// Cash perfectly balanced, datafone settled 5 less than declared.
	rec := closedRecord("100", "250", "185", "180", "350")

	assert.True(t, recon.CashVariance(rec, nil).IsZero())
	assert.True(t, dec("5").Equal(recon.CardVariance(rec)))
	assert.False(t, recon.IsBalanced(rec, nil))
}

func TestExpectedCashIgnoraMovimientosAjenos(t *testing.T) {
	rec := closedRecord("100", "0", "0", "0", "100")
	otros := []model.Movement{
		{Date: "2026-03-14", Location: "chamberi", Type: model.MovSalida, Amount: dec("50")},
		{Date: "2026-03-15", Location: "malasana", Type: model.MovSalida, Amount: dec("50")},
	}

	assert.True(t, dec("100").Equal(recon.ExpectedCash(rec, otros)))
	assert.True(t, recon.IsBalanced(rec, otros))
}

func TestExpectedCashOrdenIndependiente(t *testing.T) {
	rec := closedRecord("100", "200", "0", "0", "0")
	a := []model.Movement{mov(model.MovEntrada, "5"), mov(model.MovSalida, "12.5"), mov(model.MovEntrada, "7.5")}
	b := []model.Movement{a[2], a[0], a[1]}

	assert.True(t, recon.ExpectedCash(rec, a).Equal(recon.ExpectedCash(rec, b)))
}

func TestRedondeoACentimos(t *testing.T) {
	// Sub-cent artifacts must round away before the balance comparison.
	rec := closedRecord("0.10", "0.20", "0", "0", "0.30")
	movs := []model.Movement{
		mov(model.MovEntrada, "0.005"),
		mov(model.MovSalida, "0.005"),
	}

	assert.True(t, dec("0.30").Equal(recon.ExpectedCash(rec, movs)))
	assert.True(t, recon.IsBalanced(rec, movs))
}

func TestSummarize(t *testing.T) {
	rec := closedRecord("50", "100", "80", "75", "160")
	movs := []model.Movement{mov(model.MovEntrada, "10")}

	s := recon.Summarize(rec, movs)
	assert.True(t, dec("160").Equal(s.ExpectedCash))
	assert.True(t, s.CashVariance.IsZero())
	assert.True(t, dec("5").Equal(s.CardVariance))
	assert.False(t, s.Balanced)
}
