package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDecision("transaction", "approve", "ok")
	m.ObserveDecision("transaction", "approve", "ok")
	m.ObserveDecision("transaction", "approve", "already_processed")

	if got := testutil.ToFloat64(m.Decisions.WithLabelValues("transaction", "approve", "ok")); got != 2 {
		t.Fatalf("ok decisions = %v", got)
	}
	if got := testutil.ToFloat64(m.Decisions.WithLabelValues("transaction", "approve", "already_processed")); got != 1 {
		t.Fatalf("already_processed decisions = %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDecision("redemption", "decline", "ok")
	m.ObserveNotification("sent")
}
