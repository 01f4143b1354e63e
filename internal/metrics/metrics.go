// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveStations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_stations",
			Help: "Number of stations currently loaded in memory.",
		})

	StationLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "station_load_total",
			Help: "Cumulative number of stations successfully loaded.",
		})

	StationLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "station_load_errors_total",
			Help: "Cumulative number of station load errors.",
		})

	StationEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "station_evict_total",
			Help: "Cumulative number of stations evicted from the cache.",
		})

	ReportBuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_build_total",
			Help: "Cumulative number of station reports built.",
		})

	ReportBuildErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_build_errors_total",
			Help: "Cumulative number of report builds aborted by store errors.",
		})

	MailSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mail_sent_total",
			Help: "Cumulative number of report emails accepted by the relay.",
		})

	MailSendErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mail_send_errors_total",
			Help: "Cumulative number of report emails rejected by the relay.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveStations,
		StationLoadTotal,
		StationLoadErrorsTotal,
		StationEvictTotal,
		ReportBuildTotal,
		ReportBuildErrorsTotal,
		MailSentTotal,
		MailSendErrorsTotal,
	)
}
