package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"worklog/internal/chart"
	"worklog/internal/core"
	"worklog/internal/services"
)

const (
	barWidth  = 30
	wrapWidth = 100
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Width(20).
			Foreground(lipgloss.Color("#888888"))

	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C"))

	dimStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#666666"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// savedLabel describes when a week was last saved relative to now.
func savedLabel(at time.Time, saved bool, now time.Time) string {
	if !saved {
		return "never saved"
	}
	return "saved " + humanize.RelTime(at, now, "ago", "from now")
}

// progressBar draws done out of total as a fixed-width bar.
func progressBar(done, total float64) string {
	ratio := 0.0
	if total > 0 && !math.IsNaN(done) {
		ratio = max(0, min(1, done/total))
	}
	filled := int(ratio * barWidth)
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

// SummaryView renders a week's totals and per-day projects for the terminal.
func SummaryView(rep services.WeekReport, now time.Time) string {
	var b strings.Builder

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}

	b.WriteString(titleStyle.Render("Week "+rep.Key.String()) + "  " +
		dimStyle.Render(savedLabel(rep.LastSaved, rep.Saved, now)) + "\n\n")

	pct := 0.0
	if rep.Summary.Capacity > 0 {
		pct = rep.Summary.Total / rep.Summary.Capacity * 100
	}
	line("Effort", fmt.Sprintf("%s of %s hrs (%.1f%%)",
		core.FormatHours(rep.Summary.Total), core.FormatHours(rep.Summary.Capacity), pct))
	line("", progressBar(rep.Summary.Total, rep.Summary.Capacity))
	line("Remaining", core.FormatHours(rep.Summary.Remaining)+" hrs")
	line("Internal meetings", core.FormatHours(rep.Internal)+" hrs")
	line("Client meetings", core.FormatHours(rep.Client)+" hrs")
	b.WriteString("\n")

	for _, day := range chart.Daily(rep.Days) {
		b.WriteString(titleStyle.Render(day.Date) + "\n")
		if msg := day.Message(); msg != "" {
			b.WriteString("  " + dimStyle.Render(msg) + "\n")
			continue
		}
		for _, s := range day.Chart.Slices {
			b.WriteString(fmt.Sprintf("  %s%s hrs (%s)\n",
				labelStyle.Render(s.Label), core.FormatHours(s.Value), s.PercentLabel()))
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// MarkdownReport renders a week as a Markdown document.
func MarkdownReport(rep services.WeekReport, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Week %s\n\n", rep.Key)
	fmt.Fprintf(&b, "_%s_\n\n", savedLabel(rep.LastSaved, rep.Saved, now))

	b.WriteString("## Weekly Effort Summary\n\n")
	b.WriteString("| Metric | Hours |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Capacity | %s |\n", core.FormatHours(rep.Summary.Capacity))
	fmt.Fprintf(&b, "| Effort spent | %s |\n", core.FormatHours(rep.Summary.Total))
	fmt.Fprintf(&b, "| Remaining | %s |\n", core.FormatHours(rep.Summary.Remaining))
	fmt.Fprintf(&b, "| Internal meetings | %s |\n", core.FormatHours(rep.Internal))
	fmt.Fprintf(&b, "| Client meetings | %s |\n\n", core.FormatHours(rep.Client))

	b.WriteString("## Daily Project Distribution\n\n")
	for _, day := range chart.Daily(rep.Days) {
		fmt.Fprintf(&b, "### %s\n\n", day.Date)
		if msg := day.Message(); msg != "" {
			fmt.Fprintf(&b, "_%s_\n\n", msg)
			continue
		}
		b.WriteString("| Project | Hours | Share |\n|---|---:|---:|\n")
		for _, s := range day.Chart.Slices {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", mdCell(s.Label), core.FormatHours(s.Value), s.PercentLabel())
		}
		b.WriteString("\n")
	}

	b.WriteString("## Entries\n\n")
	if len(rep.Rows) == 0 {
		b.WriteString("_No data available yet._\n")
		return b.String()
	}
	b.WriteString("| " + strings.Join(core.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(core.Columns)) + "\n")
	for _, r := range rep.Rows {
		cells := r.Record()
		for i := range cells {
			cells[i] = mdCell(cells[i])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// renderMarkdown styles md with glamour when w is a terminal and writes it
// through unchanged otherwise.
func renderMarkdown(w io.Writer, md string, styled bool) error {
	if !styled {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
