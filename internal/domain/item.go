package domain

import "strings"

// Column names of the input and result tables.
const (
	ColumnURL           = "url"
	ColumnTitle         = "title"
	ColumnThumbnailName = "thumbnail_name"
	ColumnWebPath       = "web_path"
	ColumnThumbnailPath = "thumbnail_path"
	ColumnStatus        = "status"
	ColumnError         = "error"
)

// ResultColumns is the fixed leading column order of every result table.
// Extra input columns follow in their input order.
var ResultColumns = []string{
	ColumnURL,
	ColumnTitle,
	ColumnThumbnailName,
	ColumnWebPath,
	ColumnThumbnailPath,
	ColumnStatus,
	ColumnError,
}

// WorkItem is one row to process. It is never mutated after creation.
type WorkItem struct {
	RowIndex int
	Locator  string
	Title    string
}

// InputRow keeps every cell of an input row so unknown columns survive
// into the result table.
type InputRow struct {
	Index  int
	Values map[string]string
}

// InputTable is the parsed input list.
type InputTable struct {
	Columns []string
	Rows    []InputRow
}

// HasColumn reports whether the header contains name.
func (t *InputTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ExtraColumns returns the input columns that are not part of ResultColumns.
func (t *InputTable) ExtraColumns() []string {
	known := make(map[string]bool, len(ResultColumns))
	for _, c := range ResultColumns {
		known[c] = true
	}
	var extra []string
	for _, c := range t.Columns {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	return extra
}

// WorkItems builds one WorkItem per row, in row order. A missing title
// column yields empty titles. Only the locator is trimmed; the row's cells
// stay as read for the result table.
func (t *InputTable) WorkItems() ([]WorkItem, error) {
	if !t.HasColumn(ColumnURL) {
		return nil, ErrInputSchema
	}
	items := make([]WorkItem, 0, len(t.Rows))
	for _, r := range t.Rows {
		items = append(items, WorkItem{
			RowIndex: r.Index,
			Locator:  strings.TrimSpace(r.Values[ColumnURL]),
			Title:    r.Values[ColumnTitle],
		})
	}
	return items, nil
}
