package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksea_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linksea_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ClicksTrackedTotal is labelled "recorded" or "ignored" (unknown link).
	ClicksTrackedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksea_clicks_tracked_total",
		Help: "Click tracking calls by outcome.",
	}, []string{"result"})

	ResetMailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksea_password_reset_mails_total",
		Help: "Password reset mails by outcome.",
	}, []string{"result"})

	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksea_auth_failures_total",
		Help: "Rejected logins and bearer tokens by reason.",
	}, []string{"reason"})
)
