package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estado values for the daily register lifecycle.
// A record is never stored in a "not opened" state — absence of the record
// for a (location, date) pair IS the not-opened state.
const (
	EstadoAbierta = "abierta"
	EstadoCerrada = "cerrada"
)

// DateLayout is the calendar-date format used everywhere: keys, filters, IDs.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DailyRecord is the unit of the register lifecycle: one per (location, date).
// Closing fields are nil while the register is open and are all set at close.
type DailyRecord struct {
	ID          string          `json:"id"` // date + location composite
	Date        string          `json:"date"`
	Location    string          `json:"location"`
	User        string          `json:"user"`
	OpeningCash decimal.Decimal `json:"openingCash"`

	CashSales      *decimal.Decimal `json:"cashSales"`
	CardSales      *decimal.Decimal `json:"cardSales"`
	DatafoneSales  *decimal.Decimal `json:"datafoneSales"`
	FinalCashCount *decimal.Decimal `json:"finalCashCount"`

	Estado   string     `json:"estado"`
	OpenedAt time.Time  `json:"openedAt"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// RecordID derives the composite identifier used by the original data model.
func RecordID(location, date string) string {
	return date + "-" + location
}

// Cerrada reports whether the record has completed the closing declaration.
func (r *DailyRecord) Cerrada() bool { return r.Estado == EstadoCerrada }

// Cierre returns the closed view of the record. It fails while the register
// is still open, so variance computations are unreachable for open records.
func (r *DailyRecord) Cierre() (ClosedRecord, error) {
	if !r.Cerrada() || r.CashSales == nil || r.CardSales == nil ||
		r.DatafoneSales == nil || r.FinalCashCount == nil {
		return ClosedRecord{}, fmt.Errorf("registro %s sigue abierto: cierre incompleto", r.ID)
	}
	return ClosedRecord{
		Date:           r.Date,
		Location:       r.Location,
		OpeningCash:    r.OpeningCash,
		CashSales:      *r.CashSales,
		CardSales:      *r.CardSales,
		DatafoneSales:  *r.DatafoneSales,
		FinalCashCount: *r.FinalCashCount,
	}, nil
}

// ClosedRecord is a DailyRecord proven to be in estado cerrada, with every
// closing field present. Only this type is accepted by the reconciliation
// arithmetic — there is no sentinel-zero path for open records.
type ClosedRecord struct {
	Date           string
	Location       string
	OpeningCash    decimal.Decimal
	CashSales      decimal.Decimal
	CardSales      decimal.Decimal
	DatafoneSales  decimal.Decimal
	FinalCashCount decimal.Decimal
}

// RegisterPhase tags the lifecycle state of a (location, date) register.
type RegisterPhase int

const (
	PhaseAbsent RegisterPhase = iota
	PhaseOpen
	PhaseClosed
)

func (p RegisterPhase) String() string {
	switch p {
	case PhaseOpen:
		return "abierta"
	case PhaseClosed:
		return "cerrada"
	default:
		return "ausente"
	}
}

// RegisterState is the tagged variant Absent | Open(record) | Closed(record).
// Record is nil exactly when Phase is PhaseAbsent.
type RegisterState struct {
	Phase  RegisterPhase
	Record *DailyRecord
}

// StateOf classifies a lookup result into the tagged variant.
func StateOf(rec *DailyRecord) RegisterState {
	switch {
	case rec == nil:
		return RegisterState{Phase: PhaseAbsent}
	case rec.Cerrada():
		return RegisterState{Phase: PhaseClosed, Record: rec}
	default:
		return RegisterState{Phase: PhaseOpen, Record: rec}
	}
}
