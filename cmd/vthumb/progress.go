package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/service"
)

const barWidth = 24

// progressPrinter redraws a single line on a terminal and prints one line
// per update otherwise, so piped output stays readable.
type progressPrinter struct {
	out io.Writer
	tty bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, tty: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Follow prints events until the channel is closed.
func (p *progressPrinter) Follow(events <-chan service.Event) {
	drawn := false
	for ev := range events {
		switch ev.Type {
		case service.EventProgress:
			if p.tty {
				fmt.Fprintf(p.out, "\r\033[K%s", progressLine(ev.Progress, true))
				drawn = true
			} else {
				fmt.Fprintln(p.out, progressLine(ev.Progress, false))
			}
		case service.EventCheckpoint:
			if !p.tty {
				fmt.Fprintf(p.out, "checkpoint saved to %s\n", ev.Message)
			}
		case service.EventDone:
			if drawn {
				fmt.Fprintln(p.out)
				drawn = false
			}
		}
	}
	if drawn {
		fmt.Fprintln(p.out)
	}
}

func progressLine(p domain.Progress, bar bool) string {
	var b strings.Builder
	if bar {
		filled := 0
		if p.Total > 0 {
			filled = p.Completed * barWidth / p.Total
		}
		b.WriteString("[")
		b.WriteString(strings.Repeat("#", filled))
		b.WriteString(strings.Repeat("-", barWidth-filled))
		b.WriteString("] ")
	}
	fmt.Fprintf(&b, "%d/%d (%.1f%%) ok=%d failed=%d %.2f/s ETA %s",
		p.Completed, p.Total, p.Percent, p.Succeeded, p.Failed, p.Rate, domain.FormatDuration(p.ETA.Seconds()))
	return b.String()
}

func renderSummary(s domain.Summary) string {
	rows := [][]string{
		{"Run", s.RunID},
		{"Total", fmt.Sprintf("%d", s.Total)},
		{"Succeeded", fmt.Sprintf("%d (%.1f%%)", s.Succeeded, s.SuccessRate())},
		{"Failed", fmt.Sprintf("%d (%.1f%%)", s.Failed, s.FailureRate())},
		{"Elapsed", domain.FormatDuration(s.Elapsed.Seconds())},
		{"Throughput", fmt.Sprintf("%.2f videos/s", s.Throughput)},
		{"Results", s.ResultPath},
		{"Thumbnails", s.OutputDir},
	}
	return renderTable([]string{"Summary", ""}, rows, []columnAlignment{alignLeft, alignRight})
}
