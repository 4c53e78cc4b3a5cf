package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementTransitions counts reconciliation outcomes by operation and result.
	SettlementTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatherly",
		Name:      "settlement_transitions_total",
		Help:      "Settlement reconciliation attempts by operation and outcome.",
	}, []string{"operation", "outcome"})

	// ChatMessages counts persisted chat messages.
	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatherly",
		Name:      "chat_messages_total",
		Help:      "Chat messages accepted.",
	})
)
