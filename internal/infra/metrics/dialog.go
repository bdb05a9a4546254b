// File: internal/infra/metrics/dialog.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	dialogMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_messages_total",
			Help: "Inbound messages processed by final outcome (ok|error|panic|flood|banned).",
		},
		[]string{"outcome"},
	)

	dialogTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_state_transitions_total",
			Help: "Conversation state transitions by from/to step.",
		},
		[]string{"from", "to"},
	)

	dialogAdminCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_admin_commands_total",
			Help: "Admin command executions by command name.",
		},
		[]string{"command"},
	)
)

func init() {
	register(dialogMessages, dialogTransitions, dialogAdminCommands)
}

func IncMessageProcessed(outcome string) {
	dialogMessages.WithLabelValues(outcome).Inc()
}

func IncStateTransition(from, to string) {
	dialogTransitions.WithLabelValues(from, to).Inc()
}

func IncAdminCommand(command string) {
	dialogAdminCommands.WithLabelValues(command).Inc()
}
