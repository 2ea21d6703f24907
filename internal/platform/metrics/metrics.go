// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API.

A [Registry] owns its own prometheus registry so tests can create isolated
instances. All recording methods are safe on a nil *Registry, which lets
services run without instrumentation.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bugtrack"

// # Auth event labels

const (
	EventRegister = "register"
	EventLogin    = "login"
	EventRefresh  = "refresh"
	EventLogout   = "logout"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Registry groups the collectors served on /metrics.
type Registry struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	authEvents        *prometheus.CounterVec
	revocationsReaped prometheus.Counter
	buildInfo         *prometheus.GaugeVec
}

// New creates a Registry with the HTTP, auth and build collectors registered.
func New() *Registry {
	metrics := &Registry{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Session lifecycle events by outcome.",
		}, []string{"event", "outcome"}),

		revocationsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocations_reaped_total",
			Help:      "Expired revocation records deleted by the reaper.",
		}),

		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Bugtrack API build information.",
		}, []string{"version"}),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.httpInFlight,
		metrics.httpRequestsTotal,
		metrics.httpRequestDuration,
		metrics.authEvents,
		metrics.revocationsReaped,
		metrics.buildInfo,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// Gatherer exposes the underlying registry for tests.
func (metrics *Registry) Gatherer() prometheus.Gatherer {
	return metrics.registry
}

// SetBuildInfo publishes build_info{version} 1.
func (metrics *Registry) SetBuildInfo(version string) {
	if metrics == nil {
		return
	}
	metrics.buildInfo.WithLabelValues(version).Set(1)
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func (metrics *Registry) RequestStarted() func() {
	if metrics == nil {
		return func() {}
	}
	metrics.httpInFlight.Inc()
	return metrics.httpInFlight.Dec
}

// ObserveRequest records one finished HTTP request.
//
// route must be the router pattern ("/api/v1/issues/{issueID}"), never the raw path.
func (metrics *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if metrics == nil {
		return
	}
	statusLabel := strconv.Itoa(status)
	metrics.httpRequestsTotal.WithLabelValues(method, route, statusLabel).Inc()
	metrics.httpRequestDuration.WithLabelValues(method, route, statusLabel).Observe(elapsed.Seconds())
}

// AuthEvent counts a session lifecycle event.
func (metrics *Registry) AuthEvent(event, outcome string) {
	if metrics == nil {
		return
	}
	metrics.authEvents.WithLabelValues(event, outcome).Inc()
}

// RevocationsReaped adds count deleted revocation records.
func (metrics *Registry) RevocationsReaped(count int64) {
	if metrics == nil || count <= 0 {
		return
	}
	metrics.revocationsReaped.Add(float64(count))
}
