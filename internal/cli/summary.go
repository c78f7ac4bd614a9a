package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"worklog/internal/core"
	"worklog/internal/services"
)

type projectJSON struct {
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
}

type dayJSON struct {
	Date     string        `json:"date"`
	Projects []projectJSON `json:"projects"`
}

type summaryJSON struct {
	Key              string    `json:"key"`
	Capacity         float64   `json:"capacity"`
	Total            float64   `json:"total"`
	Remaining        float64   `json:"remaining"`
	InternalMeetings float64   `json:"internal_meetings"`
	ClientMeetings   float64   `json:"client_meetings"`
	Saved            bool      `json:"saved"`
	Days             []dayJSON `json:"days"`
}

func newSummaryJSON(rep services.WeekReport) summaryJSON {
	out := summaryJSON{
		Key:              rep.Key.String(),
		Capacity:         rep.Summary.Capacity,
		Total:            rep.Summary.Total,
		Remaining:        rep.Summary.Remaining,
		InternalMeetings: rep.Internal,
		ClientMeetings:   rep.Client,
		Saved:            rep.Saved,
		Days:             make([]dayJSON, 0, len(rep.Days)),
	}
	for _, d := range rep.Days {
		day := dayJSON{Date: d.Date, Projects: []projectJSON{}}
		for _, p := range d.Projects {
			day.Projects = append(day.Projects, projectJSON{Project: p.Name, Hours: p.Hours})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func (a *App) report(cmd *cobra.Command) (services.WeekReport, error) {
	wf, df := weekFlags(cmd)
	week, err := a.resolveWeek(wf, df)
	if err != nil {
		return services.WeekReport{}, err
	}
	res, err := a.backend(cmd.Context())
	if err != nil {
		return services.WeekReport{}, err
	}
	return res.Service.Report(cmd.Context(), week.Key, week.DateStrings())
}

// SummaryCmd returns the summary subcommand.
func SummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a week's effort against capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := app.report(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return json.NewEncoder(out).Encode(newSummaryJSON(rep))
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				fmt.Fprintln(out, core.FormatHours(rep.Summary.Total))
				return nil
			}
			fmt.Fprintln(out, SummaryView(rep, app.now()))
			return nil
		},
	}
	addWeekFlags(cmd)
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (total hours only)")
	return cmd
}

// ReportCmd returns the report subcommand.
func ReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a week as a Markdown report",
		Long: `Print a week as a Markdown report.

The report is styled for the terminal when stdout is a TTY and written
as plain Markdown otherwise, or always with --raw.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := app.report(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetBool("raw")
			out := cmd.OutOrStdout()
			return renderMarkdown(out, MarkdownReport(rep, app.now()), !raw && isTerminal(out))
		},
	}
	addWeekFlags(cmd)
	cmd.Flags().Bool("raw", false, "Write plain Markdown even on a terminal")
	return cmd
}
