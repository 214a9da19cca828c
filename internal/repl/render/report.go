package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/chronosh/chronosh/internal/history"
	"github.com/chronosh/chronosh/internal/instrument"
)

// RenderInsights writes the full timing insights report: the slowest and
// most-executed views plus the two optimization suggestion lists.
func RenderInsights(w io.Writer, reporter *instrument.Reporter) {
	stats := reporter.Stats()

	fmt.Fprintln(w, TitleStyle.Render("Command timing insights"))
	fmt.Fprintln(w, LabelStyle.Render("tracked commands: ")+fmt.Sprintf("%d", len(stats)))

	if len(stats) == 0 {
		fmt.Fprintln(w, DimStyle.Render("nothing measured yet; run a few commands first"))
		return
	}

	renderSection(w, "Slowest commands (avg > 100ms)", reporter.Slowest())
	renderSection(w, "Most executed", reporter.MostExecuted())
	renderSection(w, "Worth optimizing: slow on average (avg > 500ms)", reporter.FrequentlySlow())
	renderSection(w, "Worth optimizing: frequently used (>10 runs, avg > 50ms)", reporter.FrequentlyUsed())
}

// RenderCommandDetail writes per-command aggregates, best match first.
func RenderCommandDetail(w io.Writer, query string, stats []instrument.CommandStat) {
	if len(stats) == 0 {
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("no tracked command matches %q", query)))
		return
	}
	renderSection(w, fmt.Sprintf("Commands matching %q", query), stats)
}

func renderSection(w io.Writer, title string, stats []instrument.CommandStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, HeaderStyle.Render(title))
	for _, stat := range stats {
		fmt.Fprintf(w, "  %-24s avg %9.1fms  max %9.1fms  runs %-4d total %10.1fms\n",
			stat.Name, stat.Avg, stat.Max, stat.Count, stat.Total)
	}
}

// RenderHealth writes the process memory footprint and its rating.
func RenderHealth(w io.Writer, health instrument.Health) {
	ratingStyle := GoodStyle
	if health.Rating == instrument.RatingFair || health.Rating == instrument.RatingNeedsOptimization {
		ratingStyle = BadStyle
	}

	fmt.Fprintln(w, TitleStyle.Render("Session health"))
	fmt.Fprintln(w, LabelStyle.Render("memory: ")+humanize.IBytes(health.MemoryBytes))
	fmt.Fprintln(w, LabelStyle.Render("rating: ")+ratingStyle.Render(string(health.Rating)))
}

// RenderRecentRecords writes persisted command records, oldest first.
func RenderRecentRecords(w io.Writer, records []history.CommandRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, DimStyle.Render("no persisted command records"))
		return
	}

	fmt.Fprintln(w, HeaderStyle.Render("Recent commands"))
	for _, record := range records {
		exit := "?"
		if record.ExitCode.Valid {
			exit = fmt.Sprintf("%d", record.ExitCode.Int32)
		}
		fmt.Fprintf(w, "  %s  %-24s %9.1fms  exit %s\n",
			record.StartedAt.Format("15:04:05"), record.Command, record.DurationMs, exit)
	}
}
