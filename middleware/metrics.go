package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/router"
)

// Metrics holds the HTTP and authentication collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// LoginAttemptsTotal is labelled by result: success, invalid_credentials, error.
	LoginAttemptsTotal *prometheus.CounterVec
	// RateLimitedTotal counts requests rejected by a limiter, by route.
	RateLimitedTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them.
func NewMetrics(registry prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "route"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by a rate limiter",
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.LoginAttemptsTotal,
		m.RateLimitedTotal,
	)

	return m
}

// Instrument records request count, latency and response size per route
// template, so path parameters do not blow up label cardinality.
func Instrument[C handler.Context](m *Metrics) handler.Middleware[C] {
	if m == nil {
		panic("metrics middleware: metrics are required")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := time.Now()
			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := newCaptureWriter(w)
				err := resp(wrapped, r)

				route := router.RoutePattern(r)
				if route == "" {
					route = "unmatched"
				}
				status := wrapped.status(err)

				m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
				m.HTTPResponseSize.WithLabelValues(r.Method, route).Observe(float64(wrapped.size))
				if status == http.StatusTooManyRequests {
					m.RateLimitedTotal.WithLabelValues(route).Inc()
				}

				return err
			}
		}
	}
}

// MetricsHandler serves the Prometheus exposition for gatherer.
func MetricsHandler[C handler.Context](gatherer prometheus.Gatherer) handler.HandlerFunc[C] {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}
