package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveSummary("ranked", "text", 12, 15*time.Millisecond)
	m.ObserveSummary("ranked", "text", 4, time.Millisecond)
	m.ObserveSummary("short_circuit", "file", 2, time.Millisecond)
	m.ObserveTranslation(nil)
	m.ObserveTranslation(errors.New("down"))
	m.ObserveRequest("/api/v1/summarize", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.summaries.WithLabelValues("ranked", "text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.summaries.WithLabelValues("short_circuit", "file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.translations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/summarize", "200")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSummary("degenerate", "url", 3, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `textrank_summaries_total{method="degenerate",source="url"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
