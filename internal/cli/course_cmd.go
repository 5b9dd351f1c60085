package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
)

func resolveCourseID(ctx context.Context, app *App, input string) (string, error) {
	courses, err := app.Courses.List(ctx)
	if err != nil {
		return "", err
	}
	// Course codes double as handles.
	for _, c := range courses {
		if strings.EqualFold(c.Code, input) {
			return c.ID, nil
		}
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("course %w", err)
	}
	return id, nil
}

func newCourseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage academic courses",
	}

	cmd.AddCommand(
		newCourseAddCmd(app),
		newCourseListCmd(app),
		newCourseRemoveCmd(app),
		newCourseSyncClassesCmd(app),
	)

	return cmd
}

func newCourseAddCmd(app *App) *cobra.Command {
	var code, name, day, start, end, location, semStart, semEnd string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a course with its weekly meeting slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			days := map[string]int{"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6}
			dow, ok := days[day]
			if !ok {
				return fmt.Errorf("unknown weekday %q, expected mon..sun", day)
			}

			startClock, err := domain.ParseClock(start)
			if err != nil {
				return err
			}
			endClock, err := domain.ParseClock(end)
			if err != nil {
				return err
			}
			ss, err := parseDateFlag(semStart)
			if err != nil {
				return err
			}
			se, err := parseDateFlag(semEnd)
			if err != nil {
				return err
			}

			c := &domain.Course{
				ID:            uuid.New().String(),
				Code:          strings.ToUpper(code),
				Name:          name,
				DayOfWeek:     dow,
				Start:         startClock,
				End:           endClock,
				Location:      location,
				SemesterStart: ss,
				SemesterEnd:   se,
			}

			if err := app.Courses.Create(context.Background(), c); err != nil {
				return err
			}

			fmt.Printf("Created course %s [%s]\n", c.Name, c.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Course code (e.g. CS501)")
	cmd.Flags().StringVar(&name, "name", "", "Course name")
	cmd.Flags().StringVar(&day, "day", "", "Meeting weekday (mon..sun)")
	cmd.Flags().StringVar(&start, "start", "", "Meeting start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Meeting end (HH:MM)")
	cmd.Flags().StringVar(&location, "location", "", "Meeting location")
	cmd.Flags().StringVar(&semStart, "semester-start", "", "Semester start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&semEnd, "semester-end", "", "Semester end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("semester-start")
	_ = cmd.MarkFlagRequired("semester-end")

	return cmd
}

func newCourseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.Courses.List(context.Background())
			if err != nil {
				return err
			}

			if len(courses) == 0 {
				fmt.Println("No courses found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatCourseList(courses))
			return nil
		},
	}
}

func newCourseRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a course and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Courses.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed course %s\n", id)
			return nil
		},
	}
}

func newCourseSyncClassesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-classes ID",
		Short: "Materialize the course's class meetings as commitments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}
			n, err := app.Courses.SyncClassMeetings(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d class meetings\n", n)
			return nil
		},
	}
}
