package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackExternal(t *testing.T) {
	before := testutil.ToFloat64(ExternalRequests.WithLabelValues("test-source", OutcomeOK))

	done := TrackExternal("test-source")
	done(OutcomeOK)

	after := testutil.ToFloat64(ExternalRequests.WithLabelValues("test-source", OutcomeOK))
	assert.Equal(t, before+1, after)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "moviepicker-test"})
	assert.NoError(t, err)
	assert.NoError(t, shutdown(t.Context()))
	assert.NotNil(t, Tracer)
}
