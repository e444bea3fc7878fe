package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/providers", http.StatusOK, 10*time.Millisecond)
	m.RecordBookingCreated(7)
	m.RecordBookingCreated(7)
	m.RecordSearch(true)
	m.RecordSearch(false)
	m.RecordSearch(false)
	m.RecordWizardTransition("next", "service", "blocked")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/providers", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("7")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchRequests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchRequests.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WizardTransitions.WithLabelValues("next", "service", "blocked")))
}
