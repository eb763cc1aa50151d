package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain Prometheus metrics. HTTP-level metrics live in the
// metrics middleware.
type Metrics struct {
	// Ledger metrics
	MovementsAppended *prometheus.CounterVec
	CurrencyBalance   *prometheus.GaugeVec

	// Count metrics
	CountsCreated    prometheus.Counter
	CountAdjustments *prometheus.CounterVec

	// Withdrawal metrics
	WithdrawalsCreated  prometheus.Counter
	WithdrawalsReceived prometheus.Counter
	WithdrawalsReversed prometheus.Counter
	WithdrawalsRejected prometheus.Counter

	// Deposit metrics
	DepositsCreated   prometheus.Counter
	DepositsConfirmed prometheus.Counter
	DepositsCancelled prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		MovementsAppended: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajacentral_movements_total",
				Help: "Total ledger movements appended by kind and currency",
			},
			[]string{"kind", "currency"},
		),
		CurrencyBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cajacentral_balance",
				Help: "Current running balance per currency",
			},
			[]string{"currency"},
		),

		CountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_counts_created_total",
			Help: "Total cash counts registered",
		}),
		CountAdjustments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajacentral_count_adjustments_total",
				Help: "Total count adjustments by direction",
			},
			[]string{"direction"},
		),

		WithdrawalsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_withdrawals_created_total",
			Help: "Total withdrawals created",
		}),
		WithdrawalsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_withdrawals_received_total",
			Help: "Total withdrawals received",
		}),
		WithdrawalsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_withdrawals_reversed_total",
			Help: "Total withdrawal receptions reversed",
		}),
		WithdrawalsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_withdrawals_rejected_total",
			Help: "Total withdrawals rejected",
		}),

		DepositsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_deposits_created_total",
			Help: "Total deposits registered",
		}),
		DepositsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_deposits_confirmed_total",
			Help: "Total deposits confirmed",
		}),
		DepositsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cajacentral_deposits_cancelled_total",
			Help: "Total deposits cancelled",
		}),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cajacentral_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
