package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

const (
	ScheduleChunked = "chunked"
	ScheduleWindow  = "window"

	MaxConcurrency = 64
)

type Config struct {
	InputPath      string   `toml:"input_path"`
	OutputDir      string   `toml:"output_dir"`
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`
	Concurrency    int      `toml:"concurrency"`
	WebPathPrefix  string   `toml:"web_path_prefix"`
	FrameOffset    float64  `toml:"frame_offset"`
	Quality        int      `toml:"quality"`
	TaskTimeout    Duration `toml:"task_timeout"`
	Schedule       string   `toml:"schedule"`
	ResultsPath    string   `toml:"results_path"`
	CheckpointPath string   `toml:"checkpoint_path"`
	ReportPath     string   `toml:"report_path"`
	LedgerPath     string   `toml:"ledger_path"`
	KeepCheckpoint bool     `toml:"keep_checkpoint"`
	FFmpegPath     string   `toml:"ffmpeg_path"`
	FFprobePath    string   `toml:"ffprobe_path"`
	Verbose        bool     `toml:"verbose"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		InputPath:      "public/vid.txt",
		OutputDir:      "public/thumbnails",
		Width:          320,
		Height:         180,
		Concurrency:    10,
		WebPathPrefix:  "/temporary/thumbnails/",
		FrameOffset:    1.0,
		Quality:        85,
		Schedule:       ScheduleChunked,
		ResultsPath:    "vid.csv",
		CheckpointPath: "temp_results.csv",
		KeepCheckpoint: true,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
	}
}

// Load layers the optional TOML file at path, then VTHUMB_* environment
// variables, over Default. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.InputPath = getEnv("VTHUMB_INPUT", c.InputPath)
	c.OutputDir = getEnv("VTHUMB_OUTPUT_DIR", c.OutputDir)
	c.WebPathPrefix = getEnv("VTHUMB_WEB_PATH_PREFIX", c.WebPathPrefix)
	c.Schedule = getEnv("VTHUMB_SCHEDULE", c.Schedule)
	c.ResultsPath = getEnv("VTHUMB_RESULTS", c.ResultsPath)
	c.CheckpointPath = getEnv("VTHUMB_CHECKPOINT", c.CheckpointPath)
	c.ReportPath = getEnv("VTHUMB_REPORT", c.ReportPath)
	c.LedgerPath = getEnv("VTHUMB_LEDGER", c.LedgerPath)
	c.FFmpegPath = getEnv("VTHUMB_FFMPEG", c.FFmpegPath)
	c.FFprobePath = getEnv("VTHUMB_FFPROBE", c.FFprobePath)

	if v := os.Getenv("VTHUMB_SIZE"); v != "" {
		size, err := domain.ParseSize(v)
		if err != nil {
			return fmt.Errorf("invalid VTHUMB_SIZE: %w", err)
		}
		c.Width, c.Height = size.Width, size.Height
	}

	var err error
	if c.Concurrency, err = envInt("VTHUMB_CONCURRENCY", c.Concurrency); err != nil {
		return err
	}
	if c.Quality, err = envInt("VTHUMB_QUALITY", c.Quality); err != nil {
		return err
	}
	if v := os.Getenv("VTHUMB_FRAME_OFFSET"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid VTHUMB_FRAME_OFFSET: %w", err)
		}
		c.FrameOffset = f
	}
	if v := os.Getenv("VTHUMB_TASK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VTHUMB_TASK_TIMEOUT: %w", err)
		}
		c.TaskTimeout = Duration{d}
	}
	return nil
}

// Normalize clamps concurrency into [1, MaxConcurrency] and fills the
// derived report path.
func (c *Config) Normalize() {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Concurrency > MaxConcurrency {
		c.Concurrency = MaxConcurrency
	}
	c.Schedule = strings.ToLower(strings.TrimSpace(c.Schedule))
	if c.Schedule == "" {
		c.Schedule = ScheduleChunked
	}
	if c.ReportPath == "" && c.ResultsPath != "" {
		c.ReportPath = strings.TrimSuffix(c.ResultsPath, ".csv") + ".report.json"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if !c.Size().Valid() {
		errs = append(errs, fmt.Errorf("thumbnail size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality %d must be within 1..100", c.Quality))
	}
	if c.FrameOffset < 0 {
		errs = append(errs, fmt.Errorf("frame_offset %v must not be negative", c.FrameOffset))
	}
	if c.TaskTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("task_timeout %s must not be negative", c.TaskTimeout))
	}
	if c.Schedule != ScheduleChunked && c.Schedule != ScheduleWindow {
		errs = append(errs, fmt.Errorf("schedule %q must be %q or %q", c.Schedule, ScheduleChunked, ScheduleWindow))
	}
	if strings.TrimSpace(c.ResultsPath) == "" {
		errs = append(errs, errors.New("results_path is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) Size() domain.Size {
	return domain.Size{Width: c.Width, Height: c.Height}
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Duration reads "30s" style values from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
