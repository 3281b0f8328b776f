package worker

// cierre_worker.go
// Processes closing-report jobs from QueueCierre: re-reads the closed record
// and its ledger, reruns the reconciliation, renders the PDF report, and
// hands an email job to QueueEmail.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jjatencia/cashflow/internal/infra"
	"github.com/jjatencia/cashflow/internal/recon"
	"github.com/jjatencia/cashflow/internal/repository"
)

// CierreJobPayload identifies the register whose closing report to build.
type CierreJobPayload struct {
	Location string `json:"location"`
	Date     string `json:"date"`
}

type CierreWorker struct {
	records     repository.DailyRecordRepository
	movements   repository.MovementRepository
	dispatcher  *Dispatcher
	storagePath string
	reportEmail string
}

func NewCierreWorker(records repository.DailyRecordRepository, movements repository.MovementRepository, dispatcher *Dispatcher, storagePath, reportEmail string) *CierreWorker {
	return &CierreWorker{
		records:     records,
		movements:   movements,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		reportEmail: reportEmail,
	}
}

// Process builds and stores the closing report for one (location, date).
func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("cierre_worker: invalid payload: %w", err)
	}

	rec, err := w.records.Get(ctx, payload.Location, payload.Date)
	if err != nil {
		return err
	}
	if rec == nil {
		// Record deleted between close and report — nothing left to report on.
		log.Warn().Str("location", payload.Location).Str("date", payload.Date).
			Msg("cierre_worker: record vanished, skipping report")
		return nil
	}

	cierre, err := rec.Cierre()
	if err != nil {
		return fmt.Errorf("cierre_worker: %w", err)
	}

	movs, _, err := w.movements.GetLedger(ctx, payload.Location, payload.Date)
	if err != nil {
		return err
	}

	summary := recon.Summarize(cierre, movs)
	pdfPath, err := infra.GenerateCierrePDF(cierre, movs, summary, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", pdfPath).Bool("balanced", summary.Balanced).Msg("cierre_worker: report generated")

	if w.reportEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Cierre de caja %s %s", payload.Location, payload.Date)
	body := fmt.Sprintf("Efectivo esperado: %s\nDescuadre efectivo: %s\nDescuadre tarjeta: %s\n",
		summary.ExpectedCash.StringFixed(2),
		summary.CashVariance.StringFixed(2),
		summary.CardVariance.StringFixed(2))
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.reportEmail,
		Subject: subject,
		Body:    body,
		PDFPath: pdfPath,
	})
}
