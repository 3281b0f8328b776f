package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jjatencia/cashflow/internal/apperr"
	"github.com/jjatencia/cashflow/internal/dto"
	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/recon"
	"github.com/jjatencia/cashflow/internal/repository"
)

// Period filters for the history view. Week and month are sliding windows
// anchored on "now", not calendar-aligned boundaries.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	default:
		return "", apperr.Validation("periodo desconocido: %q", s)
	}
}

type HistorialService interface {
	Historial(ctx context.Context, location string, period Period) (*dto.HistorialResponse, error)
	ExportarExcel(ctx context.Context, location string, period Period) (*excelize.File, error)
}

type historialService struct {
	records   repository.DailyRecordRepository
	movements repository.MovementRepository
	now       func() time.Time
}

func NewHistorialService(records repository.DailyRecordRepository, movements repository.MovementRepository) HistorialService {
	return &historialService{records: records, movements: movements, now: time.Now}
}

// FilterByPeriod keeps the records inside the period's window relative to
// now. ISO dates compare correctly as strings, so the cutoffs are plain
// string comparisons:
//
//	today → exact date match
//	week  → date >= now − 7 days
//	month → date >= now − 30 days
func FilterByPeriod(records []model.DailyRecord, period Period, now time.Time) []model.DailyRecord {
	var cutoff string
	switch period {
	case PeriodToday:
		cutoff = now.Format(model.DateLayout)
		out := make([]model.DailyRecord, 0)
		for _, r := range records {
			if r.Date == cutoff {
				out = append(out, r)
			}
		}
		return out
	case PeriodWeek:
		cutoff = now.AddDate(0, 0, -7).Format(model.DateLayout)
	case PeriodMonth:
		cutoff = now.AddDate(0, 0, -30).Format(model.DateLayout)
	default:
		return records
	}

	out := make([]model.DailyRecord, 0)
	for _, r := range records {
		if r.Date >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

func (s *historialService) Historial(ctx context.Context, location string, period Period) (*dto.HistorialResponse, error) {
	records, err := s.records.ListByLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	filtered := FilterByPeriod(records, period, s.now())
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Date > filtered[j].Date })

	totales, err := s.aggregate(ctx, filtered)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistorialResponse{
		Location:  location,
		Periodo:   string(period),
		Registros: make([]dto.RegistroResponse, 0, len(filtered)),
		Totales:   *totales,
	}
	for i := range filtered {
		resp.Registros = append(resp.Registros, toRegistroResponse(&filtered[i]))
	}
	return resp, nil
}

// aggregate folds the filtered records into period totals. The cash variance
// of each closed record needs that record's movement ledger, so this is an
// I/O-dependent fold — one ledger fetch per closed record. Open records
// contribute nothing: their sales are not declared yet and their variance is
// undefined.
func (s *historialService) aggregate(ctx context.Context, records []model.DailyRecord) (*dto.TotalesPeriodo, error) {
	totals := &dto.TotalesPeriodo{
		CashSales:       decimal.Zero,
		CardSales:       decimal.Zero,
		TotalSales:      decimal.Zero,
		CashVarianceSum: decimal.Zero,
		CardVarianceSum: decimal.Zero,
	}

	for i := range records {
		rec := &records[i]
		cierre, err := rec.Cierre()
		if err != nil {
			continue // still open
		}

		movs, _, err := s.movements.GetLedger(ctx, rec.Location, rec.Date)
		if err != nil {
			return nil, err
		}

		totals.CashSales = totals.CashSales.Add(cierre.CashSales)
		totals.CardSales = totals.CardSales.Add(cierre.CardSales)
		totals.CashVarianceSum = totals.CashVarianceSum.Add(recon.CashVariance(cierre, movs))
		totals.CardVarianceSum = totals.CardVarianceSum.Add(recon.CardVariance(cierre))
	}

	totals.TotalSales = totals.CashSales.Add(totals.CardSales)
	totals.Cuadrado = totals.CashVarianceSum.IsZero() && totals.CardVarianceSum.IsZero()
	return totals, nil
}

// ExportarExcel renders the filtered history as a spreadsheet: one row per
// record with its reconciliation outcome, totals row at the bottom.
func (s *historialService) ExportarExcel(ctx context.Context, location string, period Period) (*excelize.File, error) {
	hist, err := s.Historial(ctx, location, period)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"date", "location", "user", "opening_cash", "cash_sales", "card_sales",
		"datafone_sales", "final_cash_count", "cash_variance", "card_variance", "estado",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, r := range hist.Registros {
		cells := []interface{}{r.Date, r.Location, r.User, r.OpeningCash.InexactFloat64()}
		for _, v := range []*decimal.Decimal{r.CashSales, r.CardSales, r.DatafoneSales, r.FinalCashCount} {
			if v == nil {
				cells = append(cells, "")
			} else {
				cells = append(cells, v.InexactFloat64())
			}
		}
		if r.Estado == model.EstadoCerrada && r.CashSales != nil {
			rec, err := s.records.Get(ctx, r.Location, r.Date)
			if err != nil || rec == nil {
				cells = append(cells, "", "")
			} else if cierre, err := rec.Cierre(); err == nil {
				movs, _, err := s.movements.GetLedger(ctx, r.Location, r.Date)
				if err != nil {
					return nil, err
				}
				cells = append(cells,
					recon.CashVariance(cierre, movs).InexactFloat64(),
					recon.CardVariance(cierre).InexactFloat64())
			} else {
				cells = append(cells, "", "")
			}
		} else {
			cells = append(cells, "", "")
		}
		cells = append(cells, r.Estado)

		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return nil, err
		}
		row++
	}

	totalsRow := []interface{}{
		"TOTAL", "", "", "",
		hist.Totales.CashSales.InexactFloat64(),
		hist.Totales.CardSales.InexactFloat64(),
		"", "",
		hist.Totales.CashVarianceSum.InexactFloat64(),
		hist.Totales.CardVarianceSum.InexactFloat64(),
		map[bool]string{true: "cuadrado", false: "descuadrado"}[hist.Totales.Cuadrado],
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &totalsRow); err != nil {
		return nil, err
	}

	return f, nil
}
