package observability

import (
	"testing"
	"time"

	"github.com/danmuck/p4chord/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(exchanges.WithLabelValues("revised", "decoded"))
	RecordExchange("revised", "decoded", 12*time.Millisecond)
	RecordExchange("legacy", "timed_out", 5*time.Second)
	RecordResponderFrame("legacy", "answered")

	assert.Equal(t, before+1, testutil.ToFloat64(exchanges.WithLabelValues("revised", "decoded")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(responderFrames.WithLabelValues("legacy", "answered")), 1.0)

	log.Info().Msg("observability/metrics: registration idempotent and recording paths executed")
}
