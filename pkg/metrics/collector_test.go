package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPrediction(t *testing.T) {
	before := testutil.ToFloat64(predictionsTotal.WithLabelValues("classic", "success"))

	RecordPrediction("classic", "success", 120*time.Millisecond)

	after := testutil.ToFloat64(predictionsTotal.WithLabelValues("classic", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordPhaseTransition_EmptyLabels(t *testing.T) {
	before := testutil.ToFloat64(phaseTransitionsTotal.WithLabelValues("unknown", "idle"))

	RecordPhaseTransition("", "idle")

	assert.Equal(t, before+1, testutil.ToFloat64(phaseTransitionsTotal.WithLabelValues("unknown", "idle")))
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(activeSessions))
}
