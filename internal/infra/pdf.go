package infra

// pdf.go — end-of-day closing report generation using go-pdf/fpdf.
// One A5 page per closed register: declared totals, expected cash, both
// variances, and the day's manual movement list.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/jjatencia/cashflow/internal/model"
	"github.com/jjatencia/cashflow/internal/recon"
)

// GenerateCierrePDF renders the closing report for a reconciled register.
// storagePath is created if needed. Returns the path of the written file.
func GenerateCierrePDF(rec model.ClosedRecord, movements []model.Movement, summary recon.Summary, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s_%s.pdf", rec.Location, rec.Date)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Cierre de Caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s — %s", rec.Location, rec.Date), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	money := func(d decimal.Decimal) string { return d.StringFixed(2) + " EUR" }

	row := func(label string, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(contentW*0.6, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, value, "", 1, "R", false, 0, "")
	}

	// ── Declared totals ──────────────────────────────────────────────────────
	row("Fondo de apertura", money(rec.OpeningCash), false)
	row("Ventas en efectivo", money(rec.CashSales), false)
	row("Ventas con tarjeta", money(rec.CardSales), false)
	row("Cierre datafono", money(rec.DatafoneSales), false)
	row("Recuento final de caja", money(rec.FinalCashCount), false)
	pdf.Ln(2)

	// ── Reconciliation ───────────────────────────────────────────────────────
	row("Efectivo esperado", money(summary.ExpectedCash), true)
	row("Descuadre de efectivo", money(summary.CashVariance), true)
	row("Descuadre de tarjeta", money(summary.CardVariance), true)

	estado := "CUADRADA"
	if !summary.Balanced {
		estado = "CON DIFERENCIAS"
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Caja "+estado, "1", 1, "C", false, 0, "")

	// ── Movements ────────────────────────────────────────────────────────────
	if len(movements) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Movimientos manuales", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, m := range movements {
			sign := "+"
			if m.Type == model.MovSalida {
				sign = "-"
			}
			pdf.CellFormat(contentW*0.25, 5, m.Timestamp.Format("15:04"), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.5, 5, m.Reason, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.25, 5, sign+m.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
