package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/vthumb/internal/adapter/storage/jsonfile"
	sqlitestore "github.com/bnema/vthumb/internal/adapter/storage/sqlite"
	"github.com/bnema/vthumb/internal/domain"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var ledgerPath string
	var limit int

	openLedger := func() (*sqlitestore.Ledger, error) {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		path := cfg.LedgerPath
		if ledgerPath != "" {
			path = ledgerPath
		}
		if strings.TrimSpace(path) == "" {
			return nil, errors.New("no ledger configured (set ledger_path or pass --ledger)")
		}
		return sqlitestore.NewLedger(path)
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = ledger.Close() }()

			runs, err := ledger.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
			return nil
		},
	}
	runsCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "", "SQLite run ledger path")
	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")

	var failedOnly bool
	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the recorded rows of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = ledger.Close() }()

			run, err := ledger.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			outcomes, err := ledger.Outcomes(cmd.Context(), args[0], failedOnly)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRuns([]domain.RunRecord{run}))
			fmt.Fprintln(out, renderOutcomes(outcomes))
			return nil
		},
	}
	showCmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed rows")
	runsCmd.AddCommand(showCmd)

	return runsCmd
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report [path]",
		Short: "Print the JSON report of the last run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg.Normalize()
			path := cfg.ReportPath
			if len(args) == 1 {
				path = args[0]
			}

			report, err := jsonfile.NewStore(path).Load()
			if err != nil {
				return fmt.Errorf("load report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(report.Summary))
			if len(report.Failures) > 0 {
				fmt.Fprintln(out, renderFailures(report.Failures))
			}
			return nil
		},
	}
}

func renderRuns(runs []domain.RunRecord) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		state := "finished"
		if !r.Finished {
			state = "incomplete"
		}
		rows = append(rows, []string{
			r.Summary.RunID,
			r.Summary.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.InputPath,
			fmt.Sprintf("%d", r.Summary.Total),
			fmt.Sprintf("%d", r.Summary.Succeeded),
			fmt.Sprintf("%d", r.Summary.Failed),
			domain.FormatDuration(r.Summary.Elapsed.Seconds()),
			state,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Input", "Rows", "OK", "Failed", "Elapsed", "State"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderOutcomes(outcomes []domain.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		detail := o.WebPath
		if !o.Succeeded() {
			detail = o.Error
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", o.RowIndex),
			string(o.Status),
			string(o.Kind),
			truncate(o.Locator, 48),
			truncate(detail, 60),
		})
	}
	return renderTable(
		[]string{"Row", "Status", "Kind", "Locator", "Detail"},
		rows,
		[]columnAlignment{alignRight},
	)
}

func renderFailures(failures map[string]int) string {
	kinds := make([]string, 0, len(failures))
	for k := range failures {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{k, fmt.Sprintf("%d", failures[k])})
	}
	return renderTable([]string{"Failure kind", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
