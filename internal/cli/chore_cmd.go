package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
)

func resolveChoreID(ctx context.Context, app *App, input string) (string, error) {
	tasks, err := app.Household.List(ctx, false)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("chore %w", err)
	}
	return id, nil
}

func newChoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chore",
		Short: "Manage recurring household tasks",
	}

	cmd.AddCommand(
		newChoreAddCmd(app),
		newChoreListCmd(app),
		newChoreUpdateCmd(app),
		newChoreRemoveCmd(app),
	)

	return cmd
}

// parseWeekdayFlags maps day names onto time.Weekday values.
func parseWeekdayFlags(names []string) ([]time.Weekday, error) {
	lookup := map[string]time.Weekday{
		"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
		"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
		"sun": time.Sunday,
	}
	var out []time.Weekday
	for _, n := range names {
		d, ok := lookup[n]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q, expected mon..sun", n)
		}
		out = append(out, d)
	}
	return out, nil
}

func newChoreAddCmd(app *App) *cobra.Command {
	var name, description, recurrence, cronExpr, priority, preferred string
	var minutes int
	var days []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recurring chore",
		RunE: func(cmd *cobra.Command, args []string) error {
			preferredDays, err := parseWeekdayFlags(days)
			if err != nil {
				return err
			}

			t := &domain.HouseholdTask{
				ID:                   uuid.New().String(),
				Name:                 name,
				Description:          description,
				EstimatedDurationMin: minutes,
				Recurrence:           domain.Recurrence(recurrence),
				RecurrenceExpr:       cronExpr,
				Priority:             domain.Priority(priority),
				PreferredTime:        domain.TimeOfDay(preferred),
				PreferredDays:        preferredDays,
				IsActive:             true,
			}

			if err := app.Household.Create(context.Background(), t); err != nil {
				return err
			}

			fmt.Printf("Created chore %s (every %s, %s)\n", t.Name, t.Recurrence, formatter.FormatMinutes(t.EstimatedDurationMin))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Chore name")
	cmd.Flags().IntVar(&minutes, "minutes", 30, "Estimated duration in minutes")
	cmd.Flags().StringVar(&description, "description", "", "Chore description")
	cmd.Flags().StringVar(&recurrence, "every", "weekly", "Cadence (none|daily|weekly|biweekly|monthly|custom)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression when --every=custom")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (critical|high|medium|low|flexible)")
	cmd.Flags().StringVar(&preferred, "when", "flexible", "Preferred time of day")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Preferred weekdays (mon..sun)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newChoreListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chores",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Household.List(context.Background(), activeOnly)
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No chores found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatHouseholdList(tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active chores")

	return cmd
}

func newChoreUpdateCmd(app *App) *cobra.Command {
	var name, recurrence, cronExpr, preferred string
	var minutes int
	var active bool
	var days []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a chore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveChoreID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Household.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				t.Name = name
			}
			if cmd.Flags().Changed("minutes") {
				t.EstimatedDurationMin = minutes
			}
			if cmd.Flags().Changed("every") {
				t.Recurrence = domain.Recurrence(recurrence)
			}
			if cmd.Flags().Changed("cron") {
				t.RecurrenceExpr = cronExpr
			}
			if cmd.Flags().Changed("when") {
				t.PreferredTime = domain.TimeOfDay(preferred)
			}
			if cmd.Flags().Changed("days") {
				preferredDays, err := parseWeekdayFlags(days)
				if err != nil {
					return err
				}
				t.PreferredDays = preferredDays
			}
			if cmd.Flags().Changed("active") {
				t.IsActive = active
			}
			t.UpdatedAt = time.Now()

			if err := app.Household.Update(ctx, t); err != nil {
				return err
			}

			fmt.Printf("Updated chore %s\n", t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Chore name")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated duration in minutes")
	cmd.Flags().StringVar(&recurrence, "every", "", "Cadence (none|daily|weekly|biweekly|monthly|custom)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression when cadence is custom")
	cmd.Flags().StringVar(&preferred, "when", "", "Preferred time of day")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Preferred weekdays (mon..sun)")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the chore is schedulable")

	return cmd
}

func newChoreRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a chore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveChoreID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Household.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed chore %s\n", id)
			return nil
		},
	}
}
