package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/iamwavecut/chatsyncd/internal/event"
)

var (
	// Global logger instance
	Logger *zap.Logger

	// Metrics
	messagesAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_appended_total",
			Help: "Total number of chat messages appended",
		},
		[]string{"kind"},
	)

	moderationActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Total number of moderation actions applied",
		},
		[]string{"action"},
	)

	ticketEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_ticket_events_total",
			Help: "Total number of support ticket lifecycle events",
		},
		[]string{"event"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

func Init(ctx context.Context, metricsAddr string) error {
	// Initialize logger
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	// Register metrics
	prometheus.MustRegister(messagesAppendedTotal)
	prometheus.MustRegister(moderationActionsTotal)
	prometheus.MustRegister(ticketEventsTotal)
	prometheus.MustRegister(requestDuration)

	// Setup OpenTelemetry (simplified setup)
	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	subscribeCounters()

	// Start Prometheus metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return nil
}

// subscribeCounters feeds the domain counters from the in-process event bus.
func subscribeCounters() {
	event.Subscribe(event.TypeMessageAppended, func(e event.Queueable) {
		messagesAppendedTotal.WithLabelValues("chat").Inc()
	})
	event.Subscribe(event.TypeUserBlocked, func(e event.Queueable) {
		moderationActionsTotal.WithLabelValues("block_user").Inc()
	})
	event.Subscribe(event.TypeUserUnblocked, func(e event.Queueable) {
		moderationActionsTotal.WithLabelValues("unblock_user").Inc()
	})
	event.Subscribe(event.TypeIPBlocked, func(e event.Queueable) {
		moderationActionsTotal.WithLabelValues("block_ip").Inc()
	})
	event.Subscribe(event.TypeTicketCreated, func(e event.Queueable) {
		ticketEventsTotal.WithLabelValues("created").Inc()
	})
	event.Subscribe(event.TypeTicketClosed, func(e event.Queueable) {
		ticketEventsTotal.WithLabelValues("closed").Inc()
	})
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, status string, seconds float64) {
	requestDuration.WithLabelValues(route, status).Observe(seconds)
}
