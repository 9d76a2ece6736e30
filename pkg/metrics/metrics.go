package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records counters for the chat, payment, and bulk flows.
type Metrics struct {
	chatCommands    *prometheus.CounterVec
	paymentLinks    *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	bulkBatches     prometheus.Counter
	bulkOrders      prometheus.Counter
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	chatCommands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_commands_total",
		Help: "Inbound chat commands by dispatch outcome.",
	}, []string{"command"})
	paymentLinks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_links_total",
		Help: "Payment link issuance attempts by flow and outcome.",
	}, []string{"flow", "outcome"})
	reconciliations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliations_total",
		Help: "Payment webhook reconciliations by outcome.",
	}, []string{"outcome"})
	bulkBatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_total",
		Help: "Accepted bulk ingestion batches.",
	})
	bulkOrders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_orders_total",
		Help: "Orders ingested through the bulk endpoint.",
	})
	reg.MustRegister(chatCommands, paymentLinks, reconciliations, bulkBatches, bulkOrders)
	return &Metrics{
		chatCommands:    chatCommands,
		paymentLinks:    paymentLinks,
		reconciliations: reconciliations,
		bulkBatches:     bulkBatches,
		bulkOrders:      bulkOrders,
	}
}

// IncChatCommand counts one dispatched chat command.
func (m *Metrics) IncChatCommand(command string) {
	if m == nil || m.chatCommands == nil {
		return
	}
	m.chatCommands.WithLabelValues(normalizeLabel(command)).Inc()
}

// IncPaymentLink counts one payment link attempt for the named flow.
func (m *Metrics) IncPaymentLink(flow, outcome string) {
	if m == nil || m.paymentLinks == nil {
		return
	}
	m.paymentLinks.WithLabelValues(normalizeLabel(flow), normalizeLabel(outcome)).Inc()
}

// IncReconciliation counts one webhook reconciliation outcome.
func (m *Metrics) IncReconciliation(outcome string) {
	if m == nil || m.reconciliations == nil {
		return
	}
	m.reconciliations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddBulk counts one accepted batch and its order count.
func (m *Metrics) AddBulk(orders int) {
	if m == nil || m.bulkBatches == nil {
		return
	}
	m.bulkBatches.Inc()
	m.bulkOrders.Add(float64(orders))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
