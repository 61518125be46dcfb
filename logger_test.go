package apilevel

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerCorruptIsThrottled(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, nil))

	for i := 0; i < 5; i++ {
		l.LogCorrupt(context.Background(), "/tmp/x.kb", ErrCorrupt)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "unusable knowledge base"))

	// Derived loggers share the throttle.
	l.WithPath("/tmp/x.kb").LogCorrupt(context.Background(), "/tmp/x.kb", ErrCorrupt)
	assert.Equal(t, 1, strings.Count(buf.String(), "unusable knowledge base"))
}

func TestLoggerRegenerate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, nil))

	l.LogRegenerate(context.Background(), "db.kb", ReasonStale, 3, 7, nil)
	assert.Contains(t, buf.String(), `"reason":"stale"`)
	assert.Contains(t, buf.String(), `"members":7`)

	buf.Reset()
	l.LogRegenerate(context.Background(), "db.kb", ReasonMissing, 0, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	m.RecordLoad(SourceCache, 2*time.Millisecond, nil)
	m.RecordLoad(SourceCache, 4*time.Millisecond, errors.New("x"))
	m.RecordRegenerate(ReasonMissing, time.Second, nil)
	m.RecordFallback(ReasonCorrupt)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.LoadAvgNanos)
	assert.Equal(t, int64(1), stats.RegenerateCount)
	assert.Equal(t, time.Second.Nanoseconds(), stats.RegenerateAvgNanos)
	assert.Equal(t, int64(1), stats.FallbackCount)
}
