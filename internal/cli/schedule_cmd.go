package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
	"github.com/jordanhale/timeloom/internal/service"
)

func newGenerateCmd(app *App) *cobra.Command {
	var start string
	var days int
	var preview bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the schedule over the horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}

			res, err := app.Schedule.Generate(context.Background(), service.GenerateOptions{
				Start:       startDate,
				Days:        days,
				PreviewOnly: preview,
			})
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatGenerateResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 0, "Horizon in days, defaults to the configured horizon")
	cmd.Flags().BoolVar(&preview, "preview", false, "Compute the plan without saving it")

	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var start string
	var days int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the stored schedule aggregated per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			if startDate.IsZero() {
				startDate = domain.DateOf(timeNow())
			}

			sum, err := app.Schedule.Summary(context.Background(), startDate, days)
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatSummary(sum))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 0, "Range in days, defaults to the configured horizon")

	return cmd
}

func newAgendaCmd(app *App) *cobra.Command {
	var start string
	var days int

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List time blocks in range",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			if startDate.IsZero() {
				startDate = domain.DateOf(timeNow())
			}

			blocks, err := app.Schedule.ListBlocks(context.Background(), startDate, days)
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatAgenda(blocks))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 14, "Range in days")

	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	var start string
	var days int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove scheduled blocks in range, keeping history",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			if startDate.IsZero() {
				startDate = domain.DateOf(timeNow())
			}

			n, err := app.Schedule.Clear(context.Background(), startDate, days)
			if err != nil {
				return err
			}

			fmt.Printf("Cleared %d scheduled blocks\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&days, "days", 14, "Range in days")

	return cmd
}
