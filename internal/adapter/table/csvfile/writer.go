package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/port"
)

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteResults replaces path atomically: the table is written to a
// sibling temp file which is renamed over the target once complete.
func (w *Writer) WriteResults(path string, extraColumns []string, rows []domain.ResultRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create result directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	cw := csv.NewWriter(tmp)
	header := append(append([]string{}, domain.ResultColumns...), extraColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells(extraColumns)); err != nil {
			return fmt.Errorf("write row %d: %w", r.Input.Index, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ port.ResultWriter = (*Writer)(nil)
