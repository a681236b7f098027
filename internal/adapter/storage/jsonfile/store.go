package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/port"
)

// Store keeps the run report as an indented JSON document at path.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// SaveReport replaces the report file atomically.
func (s *Store) SaveReport(report domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// Load reads the report back.
func (s *Store) Load() (domain.RunReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report domain.RunReport
	data, err := os.ReadFile(s.path)
	if err != nil {
		return report, err
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decode report %s: %w", s.path, err)
	}
	return report, nil
}

var _ port.ReportStore = (*Store)(nil)
