package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncChatCommand("confirm")
	m.IncChatCommand("confirm")
	m.IncPaymentLink("chat", "ok")
	m.IncReconciliation("settled")
	m.AddBulk(3)

	if got := testutil.ToFloat64(m.chatCommands.WithLabelValues("confirm")); got != 2 {
		t.Fatalf("expected 2 confirm commands, got %v", got)
	}
	if got := testutil.ToFloat64(m.bulkOrders); got != 3 {
		t.Fatalf("expected 3 bulk orders, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncChatCommand("1")
	m.IncPaymentLink("bulk", "error")
	m.IncReconciliation("unmatched")
	m.AddBulk(1)

	empty := New(nil)
	empty.IncChatCommand("")
}
