package bedrock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeThrottled = "throttled"
	outcomeError     = "error"
)

var dispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bedrock_relay",
		Name:      "dispatch_attempts_total",
		Help:      "Bedrock runtime call attempts by operation and outcome.",
	},
	[]string{"op", "outcome"},
)
