package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "golfmatch", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "golfmatch", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "golfmatch", Name: "notifications_sent_total", Help: "Number of LINE messages delivered by channel (push or multicast recipients)."},
		[]string{"channel"},
	)
	NotifyBatchesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "golfmatch", Name: "notify_batches_failed_total", Help: "Number of failed LINE delivery calls by channel."},
		[]string{"channel"},
	)
	ScheduleJoins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "golfmatch", Name: "schedule_joins_total", Help: "Number of join attempts by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(NotificationsSent)
	reg.MustRegister(NotifyBatchesFailed)
	reg.MustRegister(ScheduleJoins)
}
