// Package observability exposes the Prometheus metrics for the ledger core.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Journal Metrics ────────────────────────────────────────────────────────

// Postings counts posting attempts by outcome.
var Postings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "asetledger",
	Subsystem: "journal",
	Name:      "postings_total",
	Help:      "Total posting attempts by outcome (created, already_posted, failed).",
}, []string{"outcome"})

// Unposts counts headers removed by source.
var Unposts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "asetledger",
	Subsystem: "journal",
	Name:      "unposts_total",
	Help:      "Total journal headers removed by unposting.",
})

// ─── Depreciation Metrics ───────────────────────────────────────────────────

// ScheduleRegenerations counts full schedule rebuilds.
var ScheduleRegenerations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "asetledger",
	Subsystem: "depreciation",
	Name:      "schedule_regenerations_total",
	Help:      "Total wholesale depreciation schedule regenerations.",
})

// ─── Sequence Metrics ───────────────────────────────────────────────────────

// SequenceAllocations counts reference numbers handed out per prefix.
var SequenceAllocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "asetledger",
	Subsystem: "sequence",
	Name:      "allocations_total",
	Help:      "Total reference numbers allocated by prefix.",
}, []string{"prefix"})

// ─── Reporting Metrics ──────────────────────────────────────────────────────

// TrialBalanceImbalance is 1 while the most recent trial balance did not
// balance within tolerance.
var TrialBalanceImbalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "asetledger",
	Subsystem: "reporting",
	Name:      "trial_balance_imbalanced",
	Help:      "Whether the most recent trial balance failed the balance check (1) or passed (0).",
})
