package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCierreRechazaRegistroAbierto(t *testing.T) {
	rec := &DailyRecord{
		ID:          RecordID("centro", "2026-03-15"),
		Date:        "2026-03-15",
		Location:    "centro",
		OpeningCash: decimal.NewFromInt(100),
		Estado:      EstadoAbierta,
	}

	_, err := rec.Cierre()
	assert.Error(t, err)
}

func TestCierreRechazaCamposIncompletos(t *testing.T) {
	// Estado says cerrada but a closing field is missing — still rejected.
	v := decimal.NewFromInt(10)
	rec := &DailyRecord{
		Estado:    EstadoCerrada,
		CashSales: &v, CardSales: &v, DatafoneSales: &v,
		// FinalCashCount nil
	}

	_, err := rec.Cierre()
	assert.Error(t, err)
}

func TestCierreDevuelveVistaCompleta(t *testing.T) {
	open := decimal.NewFromInt(100)
	cash := decimal.NewFromInt(250)
	card := decimal.NewFromInt(180)
	datafone := decimal.NewFromInt(180)
	final := decimal.NewFromInt(320)
	now := time.Now()

	rec := &DailyRecord{
		ID: RecordID("centro", "2026-03-15"), Date: "2026-03-15", Location: "centro",
		OpeningCash: open, CashSales: &cash, CardSales: &card,
		DatafoneSales: &datafone, FinalCashCount: &final,
		Estado: EstadoCerrada, ClosedAt: &now,
	}

	cierre, err := rec.Cierre()
	require.NoError(t, err)
	assert.Equal(t, "centro", cierre.Location)
	assert.True(t, cash.Equal(cierre.CashSales))
	assert.True(t, final.Equal(cierre.FinalCashCount))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, PhaseAbsent, StateOf(nil).Phase)
	assert.Nil(t, StateOf(nil).Record)

	open := &DailyRecord{Estado: EstadoAbierta}
	assert.Equal(t, PhaseOpen, StateOf(open).Phase)
	assert.Same(t, open, StateOf(open).Record)

	closed := &DailyRecord{Estado: EstadoCerrada}
	assert.Equal(t, PhaseClosed, StateOf(closed).Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ausente", PhaseAbsent.String())
	assert.Equal(t, "abierta", PhaseOpen.String())
	assert.Equal(t, "cerrada", PhaseClosed.String())
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "2026-03-15-centro", RecordID("centro", "2026-03-15"))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-03-15"))
	assert.False(t, ValidDate("15-03-2026"))
	assert.False(t, ValidDate("2026-02-30"))
	assert.False(t, ValidDate(""))
}

func TestSignedMovement(t *testing.T) {
	entrada := Movement{Type: MovEntrada, Amount: decimal.NewFromInt(50)}
	salida := Movement{Type: MovSalida, Amount: decimal.NewFromInt(50)}

	assert.True(t, decimal.NewFromInt(50).Equal(entrada.Signed()))
	assert.True(t, decimal.NewFromInt(-50).Equal(salida.Signed()))
}
