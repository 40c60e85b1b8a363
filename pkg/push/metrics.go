package push

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sentCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steeple_push_sent_total",
		Help: "Notifications accepted by FCM, per token",
	})
	failedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steeple_push_failed_total",
		Help: "Notifications rejected by FCM, per token",
	})
	staleTokenCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steeple_push_stale_tokens_total",
		Help: "Tokens reported invalid or unregistered and handed to cleanup",
	})
)
