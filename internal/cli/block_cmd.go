package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
)

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Act on individual time blocks",
	}

	cmd.AddCommand(
		newBlockCompleteCmd(app),
		newBlockSkipCmd(app),
	)

	return cmd
}

// resolveBlockID accepts a full ID or a unique prefix against the
// blocks in the default range.
func resolveBlockID(ctx context.Context, app *App, input string) (string, error) {
	blocks, err := app.Schedule.ListBlocks(ctx, domain.DateOf(timeNow()), 14)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("block %w", err)
	}
	return id, nil
}

func newBlockCompleteCmd(app *App) *cobra.Command {
	var minutes int
	var notes string

	cmd := &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a block done and log the time against its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveBlockID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var actual *int
			if cmd.Flags().Changed("minutes") {
				actual = &minutes
			}

			block, err := app.Schedule.CompleteBlock(ctx, id, actual, notes)
			if err != nil {
				return err
			}

			fmt.Printf("Completed %s (%s logged)\n", block.TaskName, formatter.FormatMinutes(derefOr(block.ActualMin, block.DurationMin())))
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Actual minutes spent, defaults to the block duration")
	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")

	return cmd
}

func newBlockSkipCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "skip ID",
		Short: "Mark a block skipped without logging time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveBlockID(ctx, app, args[0])
			if err != nil {
				return err
			}

			block, err := app.Schedule.SkipBlock(ctx, id, notes)
			if err != nil {
				return err
			}

			fmt.Printf("Skipped %s\n", block.TaskName)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Skip reason")

	return cmd
}

func derefOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}
