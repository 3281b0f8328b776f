// Package metrics exposes the Prometheus instruments for register activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrosAbiertos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cashflow_registers_opened_total",
		Help: "Daily registers opened.",
	})

	RegistrosCerrados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cashflow_registers_closed_total",
		Help: "Daily registers closed.",
	})

	CierresDescuadrados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cashflow_unbalanced_closes_total",
		Help: "Register closes whose reconciliation did not balance.",
	})

	MovimientosRegistrados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashflow_movements_recorded_total",
		Help: "Manual cash movements recorded, by type.",
	}, []string{"tipo"})

	ConflictosLedger = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cashflow_ledger_conflicts_total",
		Help: "Optimistic-concurrency conflicts on movement ledger writes.",
	})
)
