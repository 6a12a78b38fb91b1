// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by services and the worker.
type Recorder interface {
	RecordBookingCreated()
	RecordBookingCancelled()
	RecordPaymentIntent(outcome string)
	RecordNotification(kind, status string)
}

// Collector implements Recorder on Prometheus.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	bookingsCreated prometheus.Counter
	bookingsDeleted prometheus.Counter
	paymentIntents  *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayvista_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stayvista_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayvista_bookings_created_total",
			Help: "Bookings created.",
		}),
		bookingsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayvista_bookings_cancelled_total",
			Help: "Bookings cancelled.",
		}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayvista_payment_intents_total",
			Help: "Payment intent requests by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayvista_notifications_total",
			Help: "Notification deliveries by kind and status.",
		}, []string{"kind", "status"}),
	}
	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.bookingsCreated,
		c.bookingsDeleted,
		c.paymentIntents,
		c.notifications,
	)
	return c
}

// RecordBookingCreated counts a created booking.
func (c *Collector) RecordBookingCreated() { c.bookingsCreated.Inc() }

// RecordBookingCancelled counts a cancelled booking.
func (c *Collector) RecordBookingCancelled() { c.bookingsDeleted.Inc() }

// RecordPaymentIntent counts a payment intent request ("created", "rejected", "failed").
func (c *Collector) RecordPaymentIntent(outcome string) {
	c.paymentIntents.WithLabelValues(outcome).Inc()
}

// RecordNotification counts one delivery attempt.
func (c *Collector) RecordNotification(kind, status string) {
	c.notifications.WithLabelValues(kind, status).Inc()
}

// Middleware records request count and latency per matched route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.httpRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that records nothing.
type Nop struct{}

func (Nop) RecordBookingCreated() {}
func (Nop) RecordBookingCancelled() {}
func (Nop) RecordPaymentIntent(string) {}
func (Nop) RecordNotification(string, string) {}
