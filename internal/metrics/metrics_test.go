package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", http.StatusOK, 3*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200"))

	assert.Equal(t, before+1, after)
}

func TestTrackInFlight(t *testing.T) {
	done := TrackInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	RecordWorkoutGenerated("beginner")
	RecordWorkoutAdapted("harder")
	RecordWorkoutVerified("approved")
	RecordPayment("succeeded")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `wellity_workouts_generated_total{level="beginner"}`)
	assert.Contains(t, body, `wellity_workouts_adapted_total{direction="harder"}`)
	assert.Contains(t, body, `wellity_workouts_verified_total{status="approved"}`)
	assert.Contains(t, body, `wellity_payments_processed_total{outcome="succeeded"}`)
}
