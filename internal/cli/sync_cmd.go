package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/domain"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Google Calendar synchronization",
	}

	cmd.AddCommand(
		newSyncPullCmd(app),
		newSyncLoginCmd(app),
	)

	return cmd
}

func newSyncPullCmd(app *App) *cobra.Command {
	var start string
	var days int

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull external calendar events into commitments",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			if startDate.IsZero() {
				startDate = domain.DateOf(timeNow())
			}

			res, err := app.Sync.Pull(context.Background(), startDate, startDate.AddDate(0, 0, days))
			if err != nil {
				return err
			}

			fmt.Printf("Pulled %d events, upserted %d commitments\n", res.Pulled, res.Upserted)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 14, "Range in days")

	return cmd
}

func newSyncLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Run the Google Calendar OAuth flow and store a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Login == nil {
				return fmt.Errorf("calendar sync is not configured; set calendar.client_secrets_path in the config file")
			}
			if err := app.Login(context.Background()); err != nil {
				return err
			}
			fmt.Println("Calendar token saved")
			return nil
		},
	}
}
