package port

import "github.com/bnema/vthumb/internal/domain"

type TableReader interface {
	ReadTable(path string) (*domain.InputTable, error)
}

// ResultWriter replaces the table at path with rows. Rows are written in
// the order given.
type ResultWriter interface {
	WriteResults(path string, extraColumns []string, rows []domain.ResultRow) error
}
