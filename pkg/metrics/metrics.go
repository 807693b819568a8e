// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatCompletionDuration tracks upstream chat completion latency.
	ChatCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_completion_duration_seconds",
			Help:    "Chat completion round trip duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "status"},
	)

	// ChatLoopIterations tracks how many model round trips a chat turn used.
	ChatLoopIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_loop_iterations",
			Help:    "Model round trips per orchestrated chat turn",
			Buckets: []float64{1, 2, 3},
		},
	)

	// ChatTokensTotal tracks tokens processed by the chat gateway.
	ChatTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_tokens_total",
			Help: "Total chat completion tokens processed",
		},
		[]string{"model", "direction"},
	)

	// ToolExecutionsTotal tracks tool dispatches by name and outcome.
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Total tool calls dispatched",
		},
		[]string{"tool", "status"},
	)

	// CheckoutSessionsTotal tracks checkout sessions created.
	CheckoutSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Total checkout sessions created",
		},
	)

	// PaymentExchangesTotal tracks payment exchange steps by outcome.
	PaymentExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_exchanges_total",
			Help: "Total payment exchange steps attempted",
		},
		[]string{"step", "status"},
	)

	// OrdersCompletedTotal tracks successfully completed orders.
	OrdersCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_completed_total",
			Help: "Total orders completed",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordChatCompletion records metrics for one chat completion round trip.
func RecordChatCompletion(model, status string, duration float64, tokensIn, tokensOut int) {
	ChatCompletionDuration.WithLabelValues(model, status).Observe(duration)
	ChatTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	ChatTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordToolExecution records one tool dispatch outcome.
func RecordToolExecution(tool, status string) {
	ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}

// RecordPaymentExchange records one payment exchange step outcome.
func RecordPaymentExchange(step, status string) {
	PaymentExchangesTotal.WithLabelValues(step, status).Inc()
}
