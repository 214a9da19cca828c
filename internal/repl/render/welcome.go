package render

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// WelcomeInfo contains information to display in the welcome screen.
type WelcomeInfo struct {
	// Version is the chronosh version string
	Version string
	// HistoryEnabled reports whether command records are persisted
	HistoryEnabled bool
	// SlowThresholdMs is the configured slow-command threshold
	SlowThresholdMs int
}

// tips is the list of tips to display in the welcome screen.
// A "tip of the day" is selected based on the current date.
var tips = []string{
	"run `timing stats` to see which commands eat your time",
	"run `timing stats <name>` to inspect a single command",
	"run `timing health` to check the session memory footprint",
	"run `timing recent` to list persisted command records",
	"run `timing reset` to start measuring from scratch",
	"tune thresholds in ~/.chronosh/config.yaml",
	"set CHRONOSH_VERBOSE=3 for debug-level logs",
	"slow commands are flagged right above the next prompt",
	"measurements spanning idle time are marked as suspicious",
	"press Ctrl+D on an empty line to exit",
}

// ASCII art logo - compact version that fits well in terminals
var chronoshLogo = []string{
	"      _                              _     ",
	"  ___| |__  _ __ ___  _ __   ___  __| |__  ",
	" / __| '_ \\| '__/ _ \\| '_ \\ / _ \\/ _` / _\\ ",
	"| (__| | | | | | (_) | | | | (_) \\__ \\ | | ",
	" \\___|_| |_|_|  \\___/|_| |_|\\___/|___/_| |_|",
}

// getTipOfTheDay returns a tip based on the current date.
// The same tip is shown for the entire day, changing at midnight.
func getTipOfTheDay() string {
	if len(tips) == 0 {
		return ""
	}
	now := time.Now()
	// Simple date hash; the formula is wrong but good enough for this purpose.
	daysSinceEpoch := now.Year()*365 + int(now.Month())*31 + now.Day()
	index := daysSinceEpoch % len(tips)
	return tips[index]
}

// RenderWelcome renders the welcome screen to the given writer.
// The screen displays the logo on the left and configuration info on the right.
func RenderWelcome(w io.Writer, info WelcomeInfo, termWidth int) {
	logoStyle := TitleStyle
	labelStyle := LabelStyle
	valueStyle := ValueStyle
	dimStyle := DimStyle

	logoWidth := 44
	minGap := 4
	maxInfoWidth := 40

	var infoLines []string

	infoLines = append(infoLines, TitleStyle.Render("The Timing-Aware Shell"))
	infoLines = append(infoLines, "")

	if info.Version != "" && info.Version != "dev" {
		infoLines = append(infoLines, labelStyle.Render("version: ")+valueStyle.Render(info.Version))
	} else if info.Version == "dev" {
		infoLines = append(infoLines, labelStyle.Render("version: ")+dimStyle.Render("development"))
	}

	if info.HistoryEnabled {
		infoLines = append(infoLines, labelStyle.Render("history: ")+valueStyle.Render("on"))
	} else {
		infoLines = append(infoLines, labelStyle.Render("history: ")+dimStyle.Render("off"))
	}

	infoLines = append(infoLines, labelStyle.Render("slow at: ")+valueStyle.Render(fmt.Sprintf("%dms", info.SlowThresholdMs)))

	numLines := len(chronoshLogo)
	if len(infoLines) > numLines {
		numLines = len(infoLines)
	}

	infoWidth := termWidth - logoWidth - minGap
	if infoWidth > maxInfoWidth {
		infoWidth = maxInfoWidth
	}
	tip := getTipOfTheDay()

	if infoWidth < 20 {
		// Terminal too narrow, just show info without logo
		for _, line := range infoLines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
		if tip != "" {
			fmt.Fprintln(w, dimStyle.Render("tip: "+tip))
		}
		fmt.Fprintln(w)
		return
	}

	var output strings.Builder

	output.WriteString("\n")

	for i := 0; i < numLines; i++ {
		var logoLine string
		if i < len(chronoshLogo) {
			logoLine = logoStyle.Render(chronoshLogo[i])
		} else {
			logoLine = strings.Repeat(" ", logoWidth)
		}

		var infoLine string
		if i < len(infoLines) {
			infoLine = infoLines[i]
		}

		gap := strings.Repeat(" ", minGap)
		output.WriteString(logoLine + gap + infoLine + "\n")
	}

	output.WriteString("\n")
	if tip != "" {
		output.WriteString(dimStyle.Render("tip: "+tip) + "\n")
	}

	output.WriteString("\n")

	fmt.Fprint(w, output.String())
}
