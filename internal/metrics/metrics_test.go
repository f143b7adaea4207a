package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/x", 200, time.Millisecond)
		m.RecordPropertyView(true)
		m.RecordContactAccess("denied")
		m.RecordSearch(3)
		m.RecordSubscription("basic", "created")
		m.RecordPropertyCreated()
		m.RecordImageUploadFailure()
	})
}

func TestCounters(t *testing.T) {
	m := New("rentify_test")

	m.ObserveRequest("GET", "/api/v1/properties", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/properties", 404, 10*time.Millisecond)
	m.RecordPropertyView(false)
	m.RecordPropertyView(false)
	m.RecordContactAccess("grandfathered")
	m.RecordSubscription("basic", "conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/properties")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorCounter.WithLabelValues("GET", "/api/v1/properties", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PropertyViews.WithLabelValues("anonymous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContactAccess.WithLabelValues("grandfathered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Subscriptions.WithLabelValues("basic", "conflict")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("rentify_test")
	m.RecordPropertyCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rentify_test_properties_created_total 1")
}

func TestNewTwiceDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		New("a")
		New("a")
	})
}
