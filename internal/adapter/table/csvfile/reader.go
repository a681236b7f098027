package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/port"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoHeader is returned for an empty input file.
var ErrNoHeader = errors.New("input has no header row")

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadTable parses a comma separated file with a header row. Files that
// are not valid UTF-8 are decoded as Windows-1252, which is what
// spreadsheet exports usually are. Cells are kept as read; short rows are
// padded with empty cells and cells beyond the header are dropped.
func (r *Reader) ReadTable(path string) (*domain.InputTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data, err := toUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return parse(bytes.NewReader(data))
}

func toUTF8(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(raw)
}

func parse(in io.Reader) (*domain.InputTable, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &domain.InputTable{Columns: columnNames(header)}

	for line := 0; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}

		values := make(map[string]string, len(table.Columns))
		for i, c := range table.Columns {
			if i < len(record) {
				values[c] = record[i]
			} else {
				values[c] = ""
			}
		}
		table.Rows = append(table.Rows, domain.InputRow{Index: len(table.Rows), Values: values})
	}
	return table, nil
}

// columnNames trims header names so " url " still matches, names empty
// headers column_N (1-based) and renames repeats name.1, name.2, ... so
// every input column survives into the result table.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

var _ port.TableReader = (*Reader)(nil)
