package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdist_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapdist_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method"})

	httpRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdist_http_rejected_total",
		Help: "Requests rejected before reaching a handler, by reason",
	}, []string{"reason"})

	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mapdist_queries_total",
		Help: "Distance and route queries by kind and result",
	}, []string{"kind", "result"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mapdist_query_duration_seconds",
		Help:    "Engine time per query",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"kind"})
)
