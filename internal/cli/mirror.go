package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"worklog/internal/log"
	"worklog/internal/worker"
)

// MirrorCmd returns the mirror subcommand.
func MirrorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy saved weeks to Google Sheets",
		Long: `Copy saved weeks to the Google Sheets mirror.

Without flags the current week is mirrored. --all mirrors every saved
week and reports failures at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := app.backend(ctx)
			if err != nil {
				return err
			}
			mirror, err := app.mirror(ctx)
			if err != nil {
				return err
			}
			w := worker.NewSyncWorker(res.Store, mirror, nil)
			out := cmd.OutOrStdout()

			if all, _ := cmd.Flags().GetBool("all"); !all {
				wf, df := weekFlags(cmd)
				week, err := app.resolveWeek(wf, df)
				if err != nil {
					return err
				}
				if err := w.SyncWeek(ctx, week.Key); err != nil {
					return err
				}
				fmt.Fprintf(out, "Mirrored %s\n", week.Key)
				return nil
			}

			keys, err := res.Service.Weeks(ctx)
			if err != nil {
				return err
			}
			var errs []error
			for _, key := range keys {
				if err := w.SyncWeek(ctx, key); err != nil {
					if app.Logger != nil {
						app.Logger.Error("Mirror failed", log.FieldOperation, log.OpSync, log.FieldWeekKey, key.String(), log.FieldError, err)
					}
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(out, "Mirrored %s\n", key)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d weeks failed: %w", len(errs), len(keys), errors.Join(errs...))
			}
			return nil
		},
	}
	addWeekFlags(cmd)
	cmd.Flags().Bool("all", false, "Mirror every saved week")
	cmd.MarkFlagsMutuallyExclusive("all", "week")
	cmd.MarkFlagsMutuallyExclusive("all", "date")
	return cmd
}
