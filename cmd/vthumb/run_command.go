package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bnema/vthumb/config"
	"github.com/bnema/vthumb/internal/adapter/codec/jpegcodec"
	"github.com/bnema/vthumb/internal/adapter/converter/ffmpeg"
	"github.com/bnema/vthumb/internal/adapter/storage/fsstore"
	"github.com/bnema/vthumb/internal/adapter/storage/jsonfile"
	sqlitestore "github.com/bnema/vthumb/internal/adapter/storage/sqlite"
	"github.com/bnema/vthumb/internal/adapter/table/csvfile"
	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"github.com/bnema/vthumb/internal/port"
	"github.com/bnema/vthumb/internal/service"
)

const (
	fallbackInput = "vid.txt"
	lockFileName  = ".vthumb.lock"
)

type runFlags struct {
	outputDir      string
	size           string
	concurrency    int
	schedule       string
	webPrefix      string
	frameOffset    float64
	quality        int
	taskTimeout    string
	results        string
	checkpoint     string
	report         string
	ledger         string
	keepCheckpoint bool
	ffmpeg         string
	ffprobe        string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Generate a thumbnail for every row of an input table",
		Long: `Reads a CSV table with a url column (and optionally title), writes one
letterboxed JPEG per row into the output directory and a result table with
the thumbnail path, web path and status of every row.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.InputPath = args[0]
			} else {
				cfg.InputPath = resolveInput(cfg.InputPath)
			}
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runBatch(cmd, cfg)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func (rf *runFlags) register(f *pflag.FlagSet) {
	f.StringVarP(&rf.outputDir, "output-dir", "o", "", "Directory for thumbnails")
	f.StringVarP(&rf.size, "size", "s", "", "Thumbnail size as WIDTHxHEIGHT")
	f.IntVarP(&rf.concurrency, "concurrency", "j", 0, "Maximum tasks in flight (1-64)")
	f.StringVar(&rf.schedule, "schedule", "", "Scheduling mode: chunked or window")
	f.StringVar(&rf.webPrefix, "web-prefix", "", "Prefix of the web path column")
	f.Float64Var(&rf.frameOffset, "offset", 0, "Seconds into the video to capture")
	f.IntVarP(&rf.quality, "quality", "q", 0, "JPEG quality (1-100)")
	f.StringVar(&rf.taskTimeout, "timeout", "", "Per-row extraction timeout, e.g. 30s (0 disables)")
	f.StringVar(&rf.results, "results", "", "Result table path")
	f.StringVar(&rf.checkpoint, "checkpoint", "", "Checkpoint table path")
	f.StringVar(&rf.report, "report", "", "JSON run report path")
	f.StringVar(&rf.ledger, "ledger", "", "SQLite run ledger path (empty disables)")
	f.BoolVar(&rf.keepCheckpoint, "keep-checkpoint", true, "Keep the checkpoint table after a successful run")
	f.StringVar(&rf.ffmpeg, "ffmpeg", "", "ffmpeg binary")
	f.StringVar(&rf.ffprobe, "ffprobe", "", "ffprobe binary")
}

// apply overrides cfg with every flag set on the command line.
func (rf *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("output-dir") {
		cfg.OutputDir = rf.outputDir
	}
	if changed("size") {
		size, err := domain.ParseSize(rf.size)
		if err != nil {
			return fmt.Errorf("invalid --size: %w", err)
		}
		cfg.Width, cfg.Height = size.Width, size.Height
	}
	if changed("concurrency") {
		cfg.Concurrency = rf.concurrency
	}
	if changed("schedule") {
		cfg.Schedule = rf.schedule
	}
	if changed("web-prefix") {
		cfg.WebPathPrefix = rf.webPrefix
	}
	if changed("offset") {
		cfg.FrameOffset = rf.frameOffset
	}
	if changed("quality") {
		cfg.Quality = rf.quality
	}
	if changed("timeout") {
		if err := cfg.TaskTimeout.UnmarshalText([]byte(rf.taskTimeout)); err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
	}
	if changed("results") {
		cfg.ResultsPath = rf.results
	}
	if changed("checkpoint") {
		cfg.CheckpointPath = rf.checkpoint
	}
	if changed("report") {
		cfg.ReportPath = rf.report
	}
	if changed("ledger") {
		cfg.LedgerPath = rf.ledger
	}
	if changed("keep-checkpoint") {
		cfg.KeepCheckpoint = rf.keepCheckpoint
	}
	if changed("ffmpeg") {
		cfg.FFmpegPath = rf.ffmpeg
	}
	if changed("ffprobe") {
		cfg.FFprobePath = rf.ffprobe
	}
	return nil
}

// resolveInput falls back to vid.txt in the working directory when the
// configured input does not exist.
func resolveInput(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if _, err := os.Stat(fallbackInput); err == nil {
			logger.Info.Printf("%s not found, using %s", path, fallbackInput)
			return fallbackInput
		}
	}
	return path
}

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.OutputDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another vthumb run is already writing to %s", cfg.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn.Printf("failed to release lock: %v", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ledger port.RunLedger
	if cfg.LedgerPath != "" {
		l, err := sqlitestore.NewLedger(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer func() { _ = l.Close() }()
		ledger = l
	}

	runID := uuid.NewString()
	bus := service.NewEventBus()
	progress := newProgressPrinter(cmd.OutOrStdout())
	events := bus.Subscribe(runID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		progress.Follow(events)
	}()

	executor := service.NewExecutor(
		ffmpeg.NewExtractor(cfg.FFmpegPath, cfg.FFprobePath),
		jpegcodec.New(),
		fsstore.NewStore(cfg.OutputDir),
		service.ExecutorOptions{
			Size:          cfg.Size(),
			Quality:       cfg.Quality,
			FrameOffset:   cfg.FrameOffset,
			WebPathPrefix: cfg.WebPathPrefix,
			TaskTimeout:   cfg.TaskTimeout.Duration,
		},
	)

	var reports port.ReportStore
	if cfg.ReportPath != "" {
		reports = jsonfile.NewStore(cfg.ReportPath)
	}

	batch := service.NewBatchService(
		csvfile.NewReader(),
		csvfile.NewWriter(),
		executor.Execute,
		ledger,
		reports,
		bus,
		service.BatchOptions{
			RunID:          runID,
			OutputDir:      cfg.OutputDir,
			ResultsPath:    cfg.ResultsPath,
			CheckpointPath: cfg.CheckpointPath,
			KeepCheckpoint: cfg.KeepCheckpoint,
			Concurrency:    cfg.Concurrency,
			Schedule:       service.ScheduleMode(cfg.Schedule),
			Size:           cfg.Size(),
		},
	)

	summary, err := batch.Run(runCtx, cfg.InputPath)
	bus.Close(runID)
	<-done
	if n := bus.Dropped(); n > 0 {
		logger.Debug.Printf("progress display skipped %d events", n)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(summary))
	if runCtx.Err() != nil {
		fmt.Fprintln(out, "Run interrupted: remaining rows were marked as cancelled.")
	}
	return nil
}
