// Package metrics содержит prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "event_notifier"

var (
	// EventWrites считает успешные записи событий по операциям жизненного цикла.
	EventWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_writes_total",
		Help:      "Successful event lifecycle writes by operation.",
	}, []string{"op"})

	// SubscriptionChanges считает подписки и отписки.
	SubscriptionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscription_changes_total",
		Help:      "Subscription changes by action (subscribe, duplicate, unsubscribe).",
	}, []string{"action"})

	// CacheLookups считает обращения к кешу списка событий.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Event list cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	// RenewalNotices считает уведомления о продлении, отправленные планировщиком.
	RenewalNotices = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renewal_notices_total",
		Help:      "Renewal eligibility notices by result (published, failed).",
	}, []string{"result"})

	// HTTPRequests считает HTTP-запросы.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "code"})

	// HTTPDuration длительность обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
