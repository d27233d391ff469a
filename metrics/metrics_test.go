package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		ObserveHTTP("GET", "/bookings", 200, 15*time.Millisecond)
		ObserveHTTP("GET", "", 404, time.Millisecond)
	})

	before := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated))

	IncStatusUpdate("Approved")
	assert.GreaterOrEqual(t, testutil.ToFloat64(statusUpdates.WithLabelValues("Approved")), 1.0)

	IncLogin(true)
	IncLogin(false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(loginAttempts.WithLabelValues("success")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(loginAttempts.WithLabelValues("failure")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")), 1.0)
}
