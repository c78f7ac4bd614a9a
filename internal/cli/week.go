package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"worklog/internal/log"
)

// WeekCmd returns the week subcommand.
func WeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a week's key and working days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, df := weekFlags(cmd)
			week, err := app.resolveWeek(wf, df)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return json.NewEncoder(out).Encode(map[string]any{
					"key":   week.Key.String(),
					"dates": week.DateStrings(),
				})
			}

			fmt.Fprintln(out, titleStyle.Render("Week "+week.Key.String()))
			for _, d := range week.Dates {
				fmt.Fprintf(out, "  %s %s\n", d.Format("Mon"), d.Format("2006-01-02"))
			}
			return nil
		},
	}
	addWeekFlags(cmd)
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

type weekListing struct {
	Key       string `json:"key"`
	Rows      int    `json:"rows"`
	LastSaved string `json:"last_saved,omitempty"`
}

// WeeksCmd returns the weeks subcommand.
func WeeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List saved weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := app.backend(ctx)
			if err != nil {
				return err
			}
			keys, err := res.Service.Weeks(ctx)
			if err != nil {
				return err
			}

			now := app.now()
			listing := make([]weekListing, 0, len(keys))
			labels := make([]string, 0, len(keys))
			for _, key := range keys {
				rows, err := res.Store.Load(ctx, key)
				if err != nil {
					return err
				}
				at, ok, err := res.Store.LastSaved(ctx, key)
				if err != nil {
					return err
				}
				item := weekListing{Key: key.String(), Rows: len(rows)}
				if ok {
					item.LastSaved = at.UTC().Format("2006-01-02T15:04:05Z")
				}
				listing = append(listing, item)
				labels = append(labels, savedLabel(at, ok, now))
			}

			if app.Logger != nil {
				app.Logger.Debug("Listed weeks", log.FieldOperation, log.OpLoad, "count", len(keys))
			}

			out := cmd.OutOrStdout()
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return json.NewEncoder(out).Encode(map[string]any{"weeks": listing})
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				for _, item := range listing {
					fmt.Fprintln(out, item.Key)
				}
				return nil
			}

			if len(listing) == 0 {
				fmt.Fprintln(out, "No saved weeks.")
				return nil
			}
			for i, item := range listing {
				fmt.Fprintf(out, "%s  %3d rows  %s\n", item.Key, item.Rows, dimStyle.Render(labels[i]))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (keys only)")
	return cmd
}
