package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ordersIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "kafka_consumer",
			Name:      "orders_ingested_total",
			Help:      "Total number of successfully ingested orders",
		},
	)

	ordersFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "kafka_consumer",
			Name:      "orders_failed_total",
			Help:      "Total number of failed order ingest attempts",
		},
	)

	ordersDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "kafka_consumer",
			Name:      "orders_dlq_total",
			Help:      "Total number of orders written to DLQ",
		},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)

	orderIngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "order_desk",
			Subsystem: "kafka_consumer",
			Name:      "order_ingest_duration_seconds",
			Help:      "Histogram of order ingest durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

var (
	orderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "http",
			Name:      "order_requests_total",
			Help:      "Total number of requests to get order by ID",
		},
		[]string{"status"},
	)

	orderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "order_desk",
			Subsystem: "http",
			Name:      "order_request_duration_seconds",
			Help:      "Histogram of request durations for get order by ID",
			Buckets:   prometheus.DefBuckets,
		},
	)

	statusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "http",
			Name:      "status_updates_total",
			Help:      "Total number of order status updates by result",
		},
		[]string{"result"},
	)

	productsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_desk",
			Subsystem: "http",
			Name:      "products_created_total",
			Help:      "Total number of created products",
		},
	)
)

// RegisterMetrics регистрирует метрики обработчиков, вызывать один раз при старте.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		ordersIngested,
		ordersFailed,
		ordersDLQ,
		commitErrors,
		orderIngestDuration,

		orderRequestsTotal,
		orderRequestDuration,
		statusUpdatesTotal,
		productsCreatedTotal,
	)
}
