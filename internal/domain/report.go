package domain

import "time"

// ResultRow joins an input row with its outcome for the result table.
type ResultRow struct {
	Input   InputRow
	Outcome Outcome
}

// Cells returns the row in ResultColumns order followed by extra columns.
func (r ResultRow) Cells(extraColumns []string) []string {
	o := r.Outcome
	cells := make([]string, 0, len(ResultColumns)+len(extraColumns))
	cells = append(cells,
		r.Input.Values[ColumnURL],
		r.Input.Values[ColumnTitle],
		o.ThumbnailName(),
		o.WebPath,
		o.OutputPath,
		string(o.Status),
		o.Error,
	)
	for _, c := range extraColumns {
		cells = append(cells, r.Input.Values[c])
	}
	return cells
}

// RunReport is the JSON document written next to the result table.
type RunReport struct {
	Summary     Summary        `json:"summary"`
	InputPath   string         `json:"input_path"`
	Concurrency int            `json:"concurrency"`
	Schedule    string         `json:"schedule"`
	Size        string         `json:"size"`
	Failures    map[string]int `json:"failures_by_kind"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// RunRecord is a run as kept in the ledger. Summary.Total is the number of
// input rows; Finished is false for a run that never completed.
type RunRecord struct {
	Summary   Summary
	InputPath string
	Finished  bool
}
