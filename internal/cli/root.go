package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the worklogctl command tree over app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "worklogctl",
		Short: "Inspect and mirror saved work log weeks",
		Long: `worklogctl reads the same store as the worklog web app.

Examples:
  # Key and dates of the current week
  worklogctl week

  # Every saved week
  worklogctl weeks --json

  # Totals for a week
  worklogctl summary --week 2025_M10_W42

  # Full Markdown report
  worklogctl report --date 2025-10-15 > week.md

  # Push all saved weeks to Google Sheets
  worklogctl mirror --all
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	root.AddCommand(
		WeekCmd(app),
		WeeksCmd(app),
		SummaryCmd(app),
		ReportCmd(app),
		MirrorCmd(app),
	)
	return root
}

// addWeekFlags registers the flags that select a week.
func addWeekFlags(cmd *cobra.Command) {
	cmd.Flags().String("week", "", "Week key, e.g. 2025_M10_W42")
	cmd.Flags().String("date", "", "Any date in the week (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("week", "date")
}

func weekFlags(cmd *cobra.Command) (week, date string) {
	week, _ = cmd.Flags().GetString("week")
	date, _ = cmd.Flags().GetString("date")
	return week, date
}
