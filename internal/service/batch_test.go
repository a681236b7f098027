package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/vthumb/internal/adapter/storage/fsstore"
	"github.com/bnema/vthumb/internal/adapter/table/csvfile"
	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/port"
	"github.com/bnema/vthumb/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type batchFixture struct {
	dir        string
	input      string
	outputDir  string
	results    string
	checkpoint string
	extractor  *fakeExtractor
	bus        *EventBus
}

func newBatchFixture(t *testing.T, csv string) *batchFixture {
	t.Helper()
	dir := t.TempDir()
	f := &batchFixture{
		dir:        dir,
		input:      filepath.Join(dir, "vid.txt"),
		outputDir:  filepath.Join(dir, "public", "thumbnails"),
		results:    filepath.Join(dir, "vid.csv"),
		checkpoint: filepath.Join(dir, "temp_results.csv"),
		extractor:  &fakeExtractor{fail: map[string]error{}},
		bus:        NewEventBus(),
	}
	require.NoError(t, os.WriteFile(f.input, []byte(csv), 0644))
	return f
}

func (f *batchFixture) service(concurrency int, mode ScheduleMode, ledger *mocks.RunLedgerMock, reports *mocks.ReportStoreMock) *BatchService {
	executor := NewExecutor(f.extractor, &fakeCodec{}, fsstore.NewStore(f.outputDir), ExecutorOptions{
		Size:          domain.Size{Width: 320, Height: 180},
		Quality:       85,
		FrameOffset:   1.0,
		WebPathPrefix: "/temporary/thumbnails/",
	})
	executor.now = func() time.Time { return fixedNow }

	opts := BatchOptions{
		RunID:          "run-1",
		OutputDir:      f.outputDir,
		ResultsPath:    f.results,
		CheckpointPath: f.checkpoint,
		KeepCheckpoint: true,
		Concurrency:    concurrency,
		Schedule:       mode,
		Size:           domain.Size{Width: 320, Height: 180},
	}
	return NewBatchService(csvfile.NewReader(), csvfile.NewWriter(), executor.Execute,
		optionalLedger(ledger), optionalReports(reports), f.bus, opts)
}

// optionalLedger keeps a nil mock from becoming a non-nil interface.
func optionalLedger(m *mocks.RunLedgerMock) port.RunLedger {
	if m == nil {
		return nil
	}
	return m
}

func optionalReports(m *mocks.ReportStoreMock) port.ReportStore {
	if m == nil {
		return nil
	}
	return m
}

func (f *batchFixture) readResults(t *testing.T) *domain.InputTable {
	t.Helper()
	table, err := csvfile.NewReader().ReadTable(f.results)
	require.NoError(t, err)
	return table
}

func inputCSV(n int) string {
	var b strings.Builder
	b.WriteString("url,title,category\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "https://cdn.example/%d.mp4,Clip %d [%d],cat%d\n", i, i, 1000+i, i%3)
	}
	return b.String()
}

func TestBatchService_Run_AllSucceed(t *testing.T) {
	f := newBatchFixture(t, inputCSV(25))
	events := f.bus.Subscribe("run-1")
	svc := f.service(10, ScheduleChunked, nil, nil)

	summary, err := svc.Run(context.Background(), f.input)

	require.NoError(t, err)
	assert.Equal(t, 25, summary.Total)
	assert.Equal(t, 25, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, f.outputDir, summary.OutputDir)
	assert.LessOrEqual(t, f.extractor.MaxInFlight(), 10)

	checkpoints := 0
	for len(events) > 0 {
		if ev := <-events; ev.Type == EventCheckpoint {
			checkpoints++
		}
	}
	assert.GreaterOrEqual(t, checkpoints, 2)
	assert.FileExists(t, f.checkpoint)

	results := f.readResults(t)
	assert.Equal(t, append(append([]string{}, domain.ResultColumns...), "category"), results.Columns)
	require.Len(t, results.Rows, 25)
	for i, row := range results.Rows {
		assert.Equal(t, fmt.Sprintf("https://cdn.example/%d.mp4", i), row.Values[domain.ColumnURL])
		assert.Equal(t, "success", row.Values[domain.ColumnStatus])
		name := fmt.Sprintf("Clip_%d_%d.jpg", i, 1000+i)
		assert.Equal(t, name, row.Values[domain.ColumnThumbnailName])
		assert.Equal(t, "/temporary/thumbnails/"+name, row.Values[domain.ColumnWebPath])
		assert.Equal(t, fmt.Sprintf("cat%d", i%3), row.Values["category"])
		assert.FileExists(t, row.Values[domain.ColumnThumbnailPath])
	}

	entries, err := os.ReadDir(f.outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 25)
}

func TestBatchService_Run_PartialFailure(t *testing.T) {
	f := newBatchFixture(t, inputCSV(10))
	for _, i := range []int{2, 5, 7} {
		f.extractor.fail[fmt.Sprintf("https://cdn.example/%d.mp4", i)] = errUnreachable
	}
	svc := f.service(4, ScheduleWindow, nil, nil)

	summary, err := svc.Run(context.Background(), f.input)

	require.NoError(t, err, "failed rows do not fail the run")
	assert.Equal(t, 7, summary.Succeeded)
	assert.Equal(t, 3, summary.Failed)

	results := f.readResults(t)
	require.Len(t, results.Rows, 10)
	for i, row := range results.Rows {
		switch i {
		case 2, 5, 7:
			assert.Equal(t, "failed", row.Values[domain.ColumnStatus])
			assert.True(t, strings.HasPrefix(row.Values[domain.ColumnError], "could not retrieve frame: "))
			assert.Empty(t, row.Values[domain.ColumnThumbnailPath])
			assert.Empty(t, row.Values[domain.ColumnWebPath])
		default:
			assert.Equal(t, "success", row.Values[domain.ColumnStatus])
			assert.Empty(t, row.Values[domain.ColumnError])
		}
	}

	entries, err := os.ReadDir(f.outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestBatchService_Run_DuplicateTitles(t *testing.T) {
	f := newBatchFixture(t, "url,title\na.mp4,Same [7]\nb.mp4,Same [7]\n")
	svc := f.service(1, ScheduleChunked, nil, nil)

	_, err := svc.Run(context.Background(), f.input)
	require.NoError(t, err)

	results := f.readResults(t)
	require.Len(t, results.Rows, 2)
	assert.Equal(t, "Same_7.jpg", results.Rows[0].Values[domain.ColumnThumbnailName])
	assert.Equal(t, "Same_7_1.jpg", results.Rows[1].Values[domain.ColumnThumbnailName])
}

func TestBatchService_Run_NoTitleColumn(t *testing.T) {
	f := newBatchFixture(t, "url\na.mp4\nb.mp4\n")
	svc := f.service(2, ScheduleChunked, nil, nil)

	summary, err := svc.Run(context.Background(), f.input)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)

	results := f.readResults(t)
	assert.Equal(t, "video_1734636028_0495.jpg", results.Rows[0].Values[domain.ColumnThumbnailName])
	assert.Equal(t, "video_1734636028_1819.jpg", results.Rows[1].Values[domain.ColumnThumbnailName])
	assert.Empty(t, results.Rows[0].Values[domain.ColumnTitle])
}

func TestBatchService_Run_MissingURLColumn(t *testing.T) {
	f := newBatchFixture(t, "link,title\na.mp4,A\n")
	ledger := mocks.NewRunLedgerMock(t)
	svc := f.service(2, ScheduleChunked, ledger, nil)

	_, err := svc.Run(context.Background(), f.input)

	assert.ErrorIs(t, err, domain.ErrInputSchema)
	assert.Zero(t, f.extractor.Calls())
	assert.NoFileExists(t, f.results)
	assert.NoDirExists(t, f.outputDir)
}

func TestBatchService_Run_MissingInput(t *testing.T) {
	f := newBatchFixture(t, "")
	svc := f.service(2, ScheduleChunked, nil, nil)

	_, err := svc.Run(context.Background(), filepath.Join(f.dir, "nope.txt"))

	assert.ErrorContains(t, err, "failed to read input")
}

func TestBatchService_Run_EmptyTable(t *testing.T) {
	f := newBatchFixture(t, "url,title\n")
	svc := f.service(10, ScheduleChunked, nil, nil)

	summary, err := svc.Run(context.Background(), f.input)

	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	results := f.readResults(t)
	assert.Empty(t, results.Rows)
	assert.Equal(t, domain.ResultColumns, results.Columns)
}

func TestBatchService_Run_RecordsLedgerAndReport(t *testing.T) {
	f := newBatchFixture(t, inputCSV(5))
	f.extractor.fail["https://cdn.example/3.mp4"] = domain.ErrFrameUnavailable
	ledger := mocks.NewRunLedgerMock(t)
	reports := mocks.NewReportStoreMock(t)

	ledger.EXPECT().BeginRun(mock.Anything, "run-1", f.input, 5).Return(nil).Once()
	ledger.EXPECT().RecordOutcomes(mock.Anything, "run-1", mock.AnythingOfType("[]domain.Outcome")).Return(nil)
	ledger.EXPECT().FinishRun(mock.Anything, "run-1", mock.MatchedBy(func(s domain.Summary) bool {
		return s.Total == 5 && s.Failed == 1
	})).Return(nil).Once()

	var saved domain.RunReport
	reports.EXPECT().SaveReport(mock.AnythingOfType("domain.RunReport")).
		Run(func(r domain.RunReport) { saved = r }).
		Return(nil).
		Once()

	svc := f.service(2, ScheduleChunked, ledger, reports)
	_, err := svc.Run(context.Background(), f.input)

	require.NoError(t, err)
	assert.Equal(t, f.input, saved.InputPath)
	assert.Equal(t, 2, saved.Concurrency)
	assert.Equal(t, "chunked", saved.Schedule)
	assert.Equal(t, "320x180", saved.Size)
	assert.Equal(t, map[string]int{"frame_unavailable": 1}, saved.Failures)
	assert.Equal(t, 4, saved.Summary.Succeeded)
}

func TestBatchService_Run_Cancelled(t *testing.T) {
	f := newBatchFixture(t, inputCSV(20))
	f.extractor.delay = 20 * time.Millisecond
	svc := f.service(2, ScheduleChunked, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	summary, err := svc.Run(ctx, f.input)

	require.NoError(t, err)
	assert.Equal(t, 20, summary.Total)
	assert.Positive(t, summary.Failed)

	results := f.readResults(t)
	require.Len(t, results.Rows, 20)
	assert.Equal(t, "cancelled", results.Rows[19].Values[domain.ColumnError])
}
