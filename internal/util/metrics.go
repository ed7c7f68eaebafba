package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	StockClampsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_clamps_total",
		Help: "Total number of stock decrements clamped at zero",
	})

	StatsRecalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_recalculations_total",
		Help: "Total number of full derived-stats recalculations",
	}, []string{"kind"})

	StorageReadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_read_failures_total",
		Help: "Total number of collection reads that fell back to empty",
	}, []string{"collection"})

	StorageWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_write_failures_total",
		Help: "Total number of failed collection writes",
	}, []string{"collection"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
