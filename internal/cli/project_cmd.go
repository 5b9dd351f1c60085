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

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx, false)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("project %w", err)
	}
	return id, nil
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage work projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description, priority, preferred, due string
	var hours, weeklyCap, dailyCap float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				ID:                  uuid.New().String(),
				Name:                name,
				Description:         description,
				TotalHoursAllocated: hours,
				Priority:            domain.Priority(priority),
				PreferredTime:       domain.TimeOfDay(preferred),
				IsActive:            true,
			}

			if due != "" {
				dueDate, err := parseDateFlag(due)
				if err != nil {
					return err
				}
				p.EndDate = &dueDate
			}
			if cmd.Flags().Changed("weekly-cap") {
				p.WeeklyHourCap = &weeklyCap
			}
			if cmd.Flags().Changed("daily-cap") {
				p.DailyHourCap = &dailyCap
			}

			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Created project %s (%s budgeted)\n", p.Name, formatter.FormatHours(p.TotalHoursAllocated))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Total hour budget")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (critical|high|medium|low|flexible)")
	cmd.Flags().StringVar(&preferred, "when", "flexible", "Preferred time of day (morning|afternoon|evening|flexible)")
	cmd.Flags().StringVar(&due, "due", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&weeklyCap, "weekly-cap", 0, "Weekly hour cap")
	cmd.Flags().Float64Var(&dailyCap, "daily-cap", 0, "Daily hour cap")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("hours")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), activeOnly)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active projects")

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, priority, preferred, due string
	var hours float64
	var active bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("hours") {
				p.TotalHoursAllocated = hours
			}
			if cmd.Flags().Changed("priority") {
				p.Priority = domain.Priority(priority)
			}
			if cmd.Flags().Changed("when") {
				p.PreferredTime = domain.TimeOfDay(preferred)
			}
			if cmd.Flags().Changed("due") {
				dueDate, err := parseDateFlag(due)
				if err != nil {
					return err
				}
				p.EndDate = &dueDate
			}
			if cmd.Flags().Changed("active") {
				p.IsActive = active
			}
			p.UpdatedAt = time.Now()

			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Updated project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Total hour budget")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (critical|high|medium|low|flexible)")
	cmd.Flags().StringVar(&preferred, "when", "", "Preferred time of day")
	cmd.Flags().StringVar(&due, "due", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the project is schedulable")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed project %s\n", id)
			return nil
		},
	}
}
