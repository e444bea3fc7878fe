// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	BookingsCreated   *prometheus.CounterVec
	WizardTransitions *prometheus.CounterVec
	SearchRequests    *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created, by provider",
			ConstLabels: constLabels,
		}, []string{"provider_id"}),

		WizardTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_wizard_transitions_total",
			Help:        "Booking wizard navigation attempts",
			ConstLabels: constLabels,
		}, []string{"action", "step", "result"}),

		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "provider_search_requests_total",
			Help:        "Provider search requests by cache outcome",
			ConstLabels: constLabels,
		}, []string{"cache"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) RecordBookingCreated(providerID int64) {
	m.BookingsCreated.WithLabelValues(strconv.FormatInt(providerID, 10)).Inc()
}

// RecordWizardTransition фиксирует попытку навигации в мастере бронирования
func (m *Metrics) RecordWizardTransition(action, step, result string) {
	m.WizardTransitions.WithLabelValues(action, step, result).Inc()
}

// RecordSearch фиксирует поисковый запрос и попадание в кэш
func (m *Metrics) RecordSearch(cacheHit bool) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.SearchRequests.WithLabelValues(label).Inc()
}

// Noop реализация бизнес-метрик для запуска без prometheus
type Noop struct{}

func (Noop) RecordBookingCreated(int64) {}
func (Noop) RecordWizardTransition(string, string, string) {}
func (Noop) RecordSearch(bool) {}
