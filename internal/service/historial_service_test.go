package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/service"
)

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]service.Period{
		"":      service.PeriodAll,
		"all":   service.PeriodAll,
		"today": service.PeriodToday,
		"week":  service.PeriodWeek,
		"month": service.PeriodMonth,
	} {
		got, err := service.ParsePeriod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := service.ParsePeriod("quarter")
	assert.True(t, apperr.IsValidation(err))
}

func recordOn(date string) model.DailyRecord {
	return model.DailyRecord{
		ID: model.RecordID("centro", date), Date: date, Location: "centro",
		Estado: model.EstadoAbierta,
	}
}

func TestFilterByPeriodVentanas(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	records := []model.DailyRecord{
		recordOn("2026-03-15"), // today
		recordOn("2026-03-09"), // 6 days ago — inside week
		recordOn("2026-03-08"), // exactly 7 days ago — still inside (>= cutoff)
		recordOn("2026-03-07"), // 8 days ago — outside week, inside month
		recordOn("2026-02-13"), // exactly 30 days ago — inside month
		recordOn("2026-02-12"), // 31 days ago — outside month
	}

	assert.Len(t, service.FilterByPeriod(records, service.PeriodAll, now), 6)
	assert.Len(t, service.FilterByPeriod(records, service.PeriodToday, now), 1)
	assert.Len(t, service.FilterByPeriod(records, service.PeriodWeek, now), 3)
	assert.Len(t, service.FilterByPeriod(records, service.PeriodMonth, now), 5)
}

func TestFilterByPeriodMonotono(t *testing.T) {
	// Every widening of the window keeps everything the narrower one kept.
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	records := []model.DailyRecord{}
	for d := 0; d < 45; d++ {
		records = append(records, recordOn(now.AddDate(0, 0, -d).Format(model.DateLayout)))
	}

	today := service.FilterByPeriod(records, service.PeriodToday, now)
	week := service.FilterByPeriod(records, service.PeriodWeek, now)
	month := service.FilterByPeriod(records, service.PeriodMonth, now)
	all := service.FilterByPeriod(records, service.PeriodAll, now)

	assert.LessOrEqual(t, len(today), len(week))
	assert.LessOrEqual(t, len(week), len(month))
	assert.LessOrEqual(t, len(month), len(all))
	assert.Len(t, all, 45)
}

func cerrarRegistro(t *testing.T, records *memRecordRepo, movements *memMovementRepo, date, opening, cash, card, datafone, finalCount string) {
	t.Helper()
	svc := service.NewCajaService(records, movements, nil, nil)
	ctx := context.Background()
	_, err := svc.Abrir(ctx, dto.AbrirCajaRequest{
		Location: "centro", Date: date, OpeningCash: dec(opening),
	}, "ana")
	require.NoError(t, err)
	_, err = svc.Cerrar(ctx, dto.CerrarCajaRequest{
		Location: "centro", Date: date,
		CashSales: dec(cash), CardSales: dec(card),
		DatafoneSales: dec(datafone), FinalCashCount: dec(finalCount),
	})
	require.NoError(t, err)
}

func TestHistorialAgregaTotales(t *testing.T) {
	records := newMemRecordRepo()
	movements := newMemMovementRepo()
	svc := service.NewHistorialService(records, movements)

	// Two balanced closed days, one with a 10 shortage, one still open.
	cerrarRegistro(t, records, movements, "2026-03-13", "100", "200", "150", "150", "300")
	cerrarRegistro(t, records, movements, "2026-03-14", "100", "100", "80", "80", "200")
	cerrarRegistro(t, records, movements, "2026-03-15", "100", "100", "50", "50", "190")
	cajaSvc := service.NewCajaService(records, movements, nil, nil)
	_, err := cajaSvc.Abrir(context.Background(), dto.AbrirCajaRequest{
		Location: "centro", Date: "2026-03-16", OpeningCash: dec("100"),
	}, "ana")
	require.NoError(t, err)

	resp, err := svc.Historial(context.Background(), "centro", service.PeriodAll)
	require.NoError(t, err)

	require.Len(t, resp.Registros, 4)
	// Newest first.
	assert.Equal(t, "2026-03-16", resp.Registros[0].Date)
	assert.Equal(t, "2026-03-13", resp.Registros[3].Date)

	// Open record contributes nothing to the totals.
	assert.True(t, dec("400").Equal(resp.Totales.CashSales))
	assert.True(t, dec("280").Equal(resp.Totales.CardSales))
	assert.True(t, dec("680").Equal(resp.Totales.TotalSales))
	assert.True(t, dec("-10").Equal(resp.Totales.CashVarianceSum))
	assert.True(t, resp.Totales.CardVarianceSum.IsZero())
	assert.False(t, resp.Totales.Cuadrado)
}

func TestHistorialUbicacionVacia(t *testing.T) {
	svc := service.NewHistorialService(newMemRecordRepo(), newMemMovementRepo())

	resp, err := svc.Historial(context.Background(), "centro", service.PeriodAll)
	require.NoError(t, err)
	assert.Empty(t, resp.Registros)
	assert.True(t, resp.Totales.CashSales.IsZero())
	assert.True(t, resp.Totales.Cuadrado, "an empty period has nothing out of balance")
}

func TestExportarExcel(t *testing.T) {
	records := newMemRecordRepo()
	movements := newMemMovementRepo()
	svc := service.NewHistorialService(records, movements)

	cerrarRegistro(t, records, movements, "2026-03-14", "100", "200", "150", "150", "300")
	cerrarRegistro(t, records, movements, "2026-03-15", "100", "100", "80", "80", "190")

	f, err := svc.ExportarExcel(context.Background(), "centro", service.PeriodAll)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	// header + 2 records + totals
	require.Len(t, rows, 4)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "2026-03-15", rows[1][0], "newest record first")
	assert.Equal(t, "TOTAL", rows[3][0])
}
