// Package metrics holds Prometheus instruments shared across the framework.
// All collectors register with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BodyRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "body_rejected_total",
			Help: "Request bodies rejected for exceeding the size ceiling.",
		})

	BodyMalformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "body_malformed_total",
			Help: "Request bodies that failed structured-document parsing.",
		})

	SiteLookupFailTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "site_lookup_fail_total",
			Help: "Request initializations aborted by a failed site lookup.",
		})

	PlaceholderFailTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "placeholder_fail_total",
			Help: "Placeholder resolutions that reported failure.",
		})

	PageRenderTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_render_total",
			Help: "Pages rendered to completion.",
		})
)

func init() {
	prometheus.MustRegister(
		BodyRejectedTotal,
		BodyMalformedTotal,
		SiteLookupFailTotal,
		PlaceholderFailTotal,
		PageRenderTotal,
	)
}
