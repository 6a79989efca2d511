package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/testutil"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestLogUseCaseObserver_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "period-rename",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"from": "Fall"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "import", Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "use_case=period-rename")
	assert.Contains(t, out, "from=Fall")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestMultiUseCaseObserver_FansOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := NewMultiUseCaseObserver(a, nil, b)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)

	assert.Same(t, a, NewMultiUseCaseObserver(nil, a))
	assert.IsType(t, NoopUseCaseObserver{}, NewMultiUseCaseObserver())
}

func TestServices_EmitUseCaseEvents(t *testing.T) {
	database := testutil.NewTestDB(t)
	rec := &recordingObserver{}
	metrics := NewMetricsObserver()
	svc := New(database, db.SQLite, testConfig(), rec, metrics)
	seedTwoPeriodBoard(t, database)
	ctx := context.Background()

	require.NoError(t, svc.Periods.Rename(ctx, "Fall", "Autumn"))
	require.Error(t, svc.Periods.Rename(ctx, "Autumn", "Spring"))

	require.Len(t, rec.events, 2)
	assert.Equal(t, "period-rename", rec.events[0].Name)
	assert.True(t, rec.events[0].Success)
	assert.Equal(t, 2, rec.events[0].Fields["roles"])
	assert.False(t, rec.events[1].Success)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.calls.WithLabelValues("period-rename", "true")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.calls.WithLabelValues("period-rename", "false")))
}

func TestMetricsObserver_WriteTextfile(t *testing.T) {
	metrics := NewMetricsObserver()
	metrics.ObserveUseCase(context.Background(), UseCaseEvent{Name: "export", Success: true, Duration: time.Millisecond})

	path := filepath.Join(t.TempDir(), "loadboard.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `loadboard_use_case_total{success="true",use_case="export"} 1`)
	assert.Contains(t, string(data), "loadboard_use_case_duration_seconds_count")
}
