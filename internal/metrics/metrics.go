package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petstore",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "petstore",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	ordersPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petstore",
		Name:      "orders_placed_total",
		Help:      "Orders created, by payment status.",
	}, []string{"payment_status"})

	webhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petstore",
		Name:      "payment_webhook_events_total",
		Help:      "Payment webhook deliveries by event type and outcome.",
	}, []string{"type", "outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, ordersPlaced, webhookEvents)
}

func OrderPlaced(paymentStatus string) {
	ordersPlaced.WithLabelValues(paymentStatus).Inc()
}

// WebhookEvent records a webhook delivery. outcome is "processed",
// "ignored", "rejected" or "failed".
func WebhookEvent(eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// Middleware records request counts and latency against the matched route
// template so ids in paths do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
