package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
)

func newAssignmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignment",
		Short: "Manage course assignments",
	}

	cmd.AddCommand(
		newAssignmentAddCmd(app),
		newAssignmentListCmd(app),
		newAssignmentCompleteCmd(app),
		newAssignmentRemoveCmd(app),
	)

	return cmd
}

func resolveAssignmentID(ctx context.Context, app *App, courseHandle, input string) (string, error) {
	courseID, err := resolveCourseID(ctx, app, courseHandle)
	if err != nil {
		return "", err
	}
	assignments, err := app.Assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("assignment %w", err)
	}
	return id, nil
}

func newAssignmentAddCmd(app *App) *cobra.Command {
	var course, name, description, due, priority, preferred string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			courseID, err := resolveCourseID(ctx, app, course)
			if err != nil {
				return err
			}
			dueDate, err := parseDateFlag(due)
			if err != nil {
				return err
			}

			a := &domain.Assignment{
				ID:            uuid.New().String(),
				CourseID:      courseID,
				Name:          name,
				Description:   description,
				DueDate:       dueDate,
				Priority:      domain.Priority(priority),
				PreferredTime: domain.TimeOfDay(preferred),
			}
			if cmd.Flags().Changed("hours") {
				a.EstimatedHours = &hours
			}

			if err := app.Assignments.Create(ctx, a); err != nil {
				return err
			}

			fmt.Printf("Created assignment %s (due %s)\n", a.Name, a.DueDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course code or ID")
	cmd.Flags().StringVar(&name, "name", "", "Assignment name")
	cmd.Flags().StringVar(&description, "description", "", "Assignment description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	cmd.Flags().StringVar(&priority, "priority", "high", "Priority (critical|high|medium|low|flexible)")
	cmd.Flags().StringVar(&preferred, "when", "flexible", "Preferred time of day")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newAssignmentListCmd(app *App) *cobra.Command {
	var course string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments for a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			courseID, err := resolveCourseID(ctx, app, course)
			if err != nil {
				return err
			}
			assignments, err := app.Assignments.ListByCourse(ctx, courseID)
			if err != nil {
				return err
			}

			if len(assignments) == 0 {
				fmt.Println("No assignments found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatAssignmentList(assignments))
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course code or ID")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func newAssignmentCompleteCmd(app *App) *cobra.Command {
	var course string

	cmd := &cobra.Command{
		Use:   "complete ID",
		Short: "Mark an assignment done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveAssignmentID(ctx, app, course, args[0])
			if err != nil {
				return err
			}
			if err := app.Assignments.Complete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Completed assignment %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course code or ID")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func newAssignmentRemoveCmd(app *App) *cobra.Command {
	var course string

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveAssignmentID(ctx, app, course, args[0])
			if err != nil {
				return err
			}
			if err := app.Assignments.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed assignment %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "Course code or ID")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}
