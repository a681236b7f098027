package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := NewLedger(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

func sampleOutcomes() []domain.Outcome {
	ok := domain.NewSuccess(domain.WorkItem{RowIndex: 0, Locator: "a.mp4", Title: "A [1]"}, "/out/A_1.jpg", "/temporary/thumbnails/A_1.jpg")
	ok.Duration = 1500 * time.Millisecond
	bad := domain.NewFailure(domain.WorkItem{RowIndex: 1, Locator: "b.mp4"}, "could not retrieve frame: gone", domain.ErrSourceUnreachable)
	return []domain.Outcome{ok, bad}
}

func TestLedger_RunLifecycle(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.BeginRun(ctx, "run-1", "vid.txt", 2))
	require.NoError(t, l.RecordOutcomes(ctx, "run-1", sampleOutcomes()))

	run, err := l.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, run.Finished)
	assert.Equal(t, "vid.txt", run.InputPath)
	assert.Equal(t, 2, run.Summary.Total)

	finished := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, l.FinishRun(ctx, "run-1", domain.Summary{
		Total: 2, Succeeded: 1, Failed: 1,
		Elapsed:    4 * time.Second,
		ResultPath: "vid.csv",
		OutputDir:  "public/thumbnails",
		FinishedAt: finished,
	}))

	run, err = l.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Equal(t, 1, run.Summary.Succeeded)
	assert.Equal(t, 1, run.Summary.Failed)
	assert.Equal(t, 4*time.Second, run.Summary.Elapsed)
	assert.Equal(t, "vid.csv", run.Summary.ResultPath)
	assert.Equal(t, "public/thumbnails", run.Summary.OutputDir)
	assert.True(t, finished.Equal(run.Summary.FinishedAt))
	assert.InDelta(t, 0.5, run.Summary.Throughput, 0.0001)

	outcomes, err := l.Outcomes(ctx, "run-1", false)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "/temporary/thumbnails/A_1.jpg", outcomes[0].WebPath)
	assert.Equal(t, 1500*time.Millisecond, outcomes[0].Duration)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, domain.KindSourceUnreachable, outcomes[1].Kind)

	failed, err := l.Outcomes(ctx, "run-1", true)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].RowIndex)
}

func TestLedger_RecordOutcomesUpserts(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.BeginRun(ctx, "run", "vid.txt", 1))

	item := domain.WorkItem{RowIndex: 0, Locator: "a.mp4"}
	require.NoError(t, l.RecordOutcomes(ctx, "run", []domain.Outcome{
		domain.NewFailure(item, "cancelled", context.Canceled),
	}))
	require.NoError(t, l.RecordOutcomes(ctx, "run", []domain.Outcome{
		domain.NewSuccess(item, "/out/a.jpg", "/web/a.jpg"),
	}))

	outcomes, err := l.Outcomes(ctx, "run", false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Succeeded())
	assert.Empty(t, outcomes[0].Error)
}

func TestLedger_RecordOutcomesUnknownRun(t *testing.T) {
	l, _ := newTestLedger(t)

	err := l.RecordOutcomes(context.Background(), "ghost", sampleOutcomes())

	assert.Error(t, err, "foreign key must reject outcomes of an unknown run")
}

func TestLedger_NotFound(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = l.FinishRun(ctx, "missing", domain.Summary{FinishedAt: time.Now()})
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLedger_ListRunsNewestFirst(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, l.BeginRun(ctx, id, id+".txt", 1))
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := l.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].Summary.RunID)
	assert.Equal(t, "second", runs[1].Summary.RunID)
}

func TestLedger_ReopenKeepsData(t *testing.T) {
	l, path := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.BeginRun(ctx, "run", "vid.txt", 3))
	require.NoError(t, l.Close())

	reopened, err := NewLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.GetRun(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, 3, run.Summary.Total)
}
