package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.MovementsAppended == nil || m.CountsCreated == nil || m.DepositsConfirmed == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.MovementsAppended.WithLabelValues("deposit", "PYG").Inc()
	m.CurrencyBalance.WithLabelValues("PYG").Set(1500000)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatal("expected registered metrics, got none")
	}
}
