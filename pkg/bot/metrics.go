package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_messages_total",
			Help: "Inbound chat messages by the action taken",
		},
		[]string{"action"},
	)

	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_commands_total",
			Help: "Prefixed commands by command name and outcome",
		},
		[]string{"command", "status"},
	)

	repliesFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kotoba_replies_failed_total",
			Help: "Replies that could not be delivered to the chat platform",
		},
	)

	gatewayConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kotoba_gateway_connected",
			Help: "1 while the chat gateway connection is up",
		},
	)
)

const (
	actionIgnoredSelf   = "ignored_self"
	actionAutoTranslate = "auto_translate"
	actionInline        = "inline_trigger"
	actionCommand       = "command"
	actionNone          = "none"
)
