package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.RunReport {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.RunReport{
		Summary: domain.Summary{
			RunID:      "run-1",
			Total:      10,
			Succeeded:  7,
			Failed:     3,
			Elapsed:    5 * time.Second,
			Throughput: 2,
			ResultPath: "vid.csv",
			OutputDir:  "public/thumbnails",
			StartedAt:  started,
			FinishedAt: started.Add(5 * time.Second),
		},
		InputPath:   "public/vid.txt",
		Concurrency: 10,
		Schedule:    "chunked",
		Size:        "320x180",
		Failures:    map[string]int{"source_unreachable": 2, "frame_unavailable": 1},
		GeneratedAt: started.Add(6 * time.Second),
	}
}

func TestStoreSaveReport(t *testing.T) {
	t.Run("writes indented json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vid.report.json")
		store := NewStore(path)

		require.NoError(t, store.SaveReport(sampleReport()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		summary := raw["summary"].(map[string]any)
		assert.Equal(t, "run-1", summary["run_id"])
		assert.EqualValues(t, 7, summary["succeeded"])
		assert.Equal(t, "320x180", raw["size"])
		assert.Contains(t, string(data), "\n  \"summary\"")
	})

	t.Run("creates missing parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "nested", "r.json")

		require.NoError(t, NewStore(path).SaveReport(sampleReport()))

		assert.FileExists(t, path)
	})

	t.Run("replaces previous report without leftovers", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "r.json")
		store := NewStore(path)

		first := sampleReport()
		require.NoError(t, store.SaveReport(first))
		second := sampleReport()
		second.Summary.RunID = "run-2"
		require.NoError(t, store.SaveReport(second))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "run-2", loaded.Summary.RunID)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestStoreLoad(t *testing.T) {
	t.Run("round trips a report", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "r.json"))
		want := sampleReport()
		require.NoError(t, store.SaveReport(want))

		got, err := store.Load()

		require.NoError(t, err)
		assert.Equal(t, want.Failures, got.Failures)
		assert.Equal(t, want.Summary.Elapsed, got.Summary.Elapsed)
		assert.True(t, want.Summary.StartedAt.Equal(got.Summary.StartedAt))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewStore(filepath.Join(t.TempDir(), "none.json")).Load()

		assert.True(t, os.IsNotExist(err))
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("invalid json"), 0600))

		_, err := NewStore(path).Load()

		assert.ErrorContains(t, err, "decode report")
	})
}

func TestConcurrentSaves(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "r.json"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.SaveReport(sampleReport()))
		}()
	}
	wg.Wait()

	_, err := store.Load()
	assert.NoError(t, err)
}
