package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/chronosh/chronosh/internal/instrument"
	"github.com/chronosh/chronosh/internal/repl/render"
)

// ErrExit is returned when the user requests to exit the REPL.
var ErrExit = fmt.Errorf("exit requested")

const recentRecordsLimit = 20

// handleBuiltinCommand handles built-in REPL commands.
// Returns true if the command was handled, and an error if the REPL should exit.
func (r *REPL) handleBuiltinCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "exit":
		// Signal exit by returning ErrExit
		return true, ErrExit

	case "timing":
		return true, r.handleTimingCommand(fields[1:])

	default:
		return false, nil
	}
}

// handleTimingCommand processes the builtin "timing" command.
func (r *REPL) handleTimingCommand(args []string) error {
	if len(args) == 0 {
		r.ShowInsights()
		return nil
	}

	switch args[0] {
	case "stats":
		if len(args) > 1 {
			query := args[1]
			render.RenderCommandDetail(r.out, query, r.session.Reporter().Lookup(query))
			return nil
		}
		r.ShowInsights()
		return nil

	case "health":
		r.HealthCheck()
		return nil

	case "reset":
		r.ClearStats()
		fmt.Fprintln(r.out, "Timing statistics cleared.")
		return nil

	case "recent":
		return r.showRecentRecords()

	case "-h", "help":
		printTimingHelp(r.out)
		return nil

	default:
		fmt.Fprintf(os.Stderr, "chronosh: unknown timing subcommand: %s\nRun 'timing -h' for usage\n", args[0])
		return nil
	}
}

// ShowInsights prints the insight views over the recorded statistics.
// It is read-only: no timer, guard, or store state changes.
func (r *REPL) ShowInsights() {
	render.RenderInsights(r.out, r.session.Reporter())
}

// HealthCheck prints the process memory footprint and its rating.
func (r *REPL) HealthCheck() {
	render.RenderHealth(r.out, instrument.CheckHealth())
}

// ClearStats resets the in-memory statistics store.
func (r *REPL) ClearStats() {
	r.session.ClearStats()
}

func (r *REPL) showRecentRecords() error {
	if r.historyMgr == nil {
		fmt.Fprintln(r.out, "History persistence is disabled.")
		return nil
	}

	records, err := r.historyMgr.GetRecentRecords(recentRecordsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronosh: failed to read history: %v\n", err)
		return nil
	}

	render.RenderRecentRecords(r.out, records)
	return nil
}

func printTimingHelp(w io.Writer) {
	help := []string{
		"Usage: timing [command]",
		"",
		"Inspect per-command wall-clock timing for this session.",
		"",
		"Commands:",
		"  stats           Show insight views (default)",
		"  stats <name>    Show aggregates for commands matching <name>",
		"  health          Show process memory footprint and rating",
		"  recent          List recently persisted command records",
		"  reset           Clear all in-memory statistics",
		"  -h              Show this help message",
	}
	fmt.Fprintln(w, strings.Join(help, "\n"))
}

// showWelcomeScreen displays the welcome screen with configuration info.
func (r *REPL) showWelcomeScreen() {
	// Get terminal width
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		termWidth = 80 // Default fallback
	}

	info := render.WelcomeInfo{
		Version:         r.buildVersion,
		HistoryEnabled:  r.historyMgr != nil,
		SlowThresholdMs: r.config.Timing.SlowThresholdMs,
	}

	render.RenderWelcome(r.out, info, termWidth)
}
