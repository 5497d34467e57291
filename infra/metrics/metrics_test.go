package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_CountsRequestsAndLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.ObserveRequest(KindItem, OutcomeOK, 20*time.Millisecond)
	rec.ObserveRequest(KindItem, OutcomeOK, 10*time.Millisecond)
	rec.ObserveRequest(KindStoryIDs, OutcomeAborted, time.Millisecond)
	rec.ObserveCacheLookup(true)
	rec.ObserveCacheLookup(false)
	rec.ObserveCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.requestsTotal.WithLabelValues(KindItem, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requestsTotal.WithLabelValues(KindStoryIDs, OutcomeAborted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.requestDuration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	rec.ObserveRequest(KindItem, OutcomeError, time.Second)
	rec.ObserveCacheLookup(true)
}
