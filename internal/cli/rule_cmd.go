package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/cli/formatter"
	"github.com/jordanhale/timeloom/internal/domain"
)

func resolveRuleID(ctx context.Context, app *App, input string) (string, error) {
	rules, err := app.Rules.List(ctx, false)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	id, err := resolveID(input, ids)
	if err != nil {
		return "", fmt.Errorf("rule %w", err)
	}
	return id, nil
}

func newRuleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage scheduling rules",
	}

	cmd.AddCommand(
		newRuleListCmd(app),
		newRuleAddCmd(app),
		newRuleRemoveCmd(app),
		newRuleTemplatesCmd(app),
		newRuleUseCmd(app),
	)

	return cmd
}

func newRuleListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := app.Rules.List(context.Background(), activeOnly)
			if err != nil {
				return err
			}

			if len(rules) == 0 {
				fmt.Println("No rules defined.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatRuleList(rules))
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active rules")

	return cmd
}

// parseWindowFlag parses "HH:MM-HH:MM" into a Window.
func parseWindowFlag(value string) (domain.Window, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return domain.Window{}, fmt.Errorf("invalid window %q, expected HH:MM-HH:MM", value)
	}
	start, err := domain.ParseClock(parts[0])
	if err != nil {
		return domain.Window{}, err
	}
	end, err := domain.ParseClock(parts[1])
	if err != nil {
		return domain.Window{}, err
	}
	return domain.Window{Start: start, End: end}, nil
}

func newRuleAddCmd(app *App) *cobra.Command {
	var name, description string
	var priority, boost, dailyLimit, weeklyLimit int
	var ifType, ifName, ifPriority, restrict, block, exclude string
	var ifDays []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a rule from condition and action flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &domain.Rule{
				Name:        name,
				Description: description,
				Priority:    priority,
				IsActive:    true,
			}

			if ifType != "" {
				r.Conditions = append(r.Conditions, domain.Condition{
					Kind: domain.CondTaskType, TaskType: domain.SourceType(ifType),
				})
			}
			if ifName != "" {
				r.Conditions = append(r.Conditions, domain.Condition{
					Kind: domain.CondNameContains, Substring: ifName,
				})
			}
			if ifPriority != "" {
				r.Conditions = append(r.Conditions, domain.Condition{
					Kind: domain.CondPriority, Priority: domain.Priority(ifPriority),
				})
			}
			if len(ifDays) > 0 {
				weekdays, err := parseWeekdayFlags(ifDays)
				if err != nil {
					return err
				}
				r.Conditions = append(r.Conditions, domain.Condition{
					Kind: domain.CondDayOfWeek, Weekdays: weekdays,
				})
			}

			if restrict != "" {
				w, err := parseWindowFlag(restrict)
				if err != nil {
					return err
				}
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionRestrictWindow, Window: w})
			}
			if block != "" {
				w, err := parseWindowFlag(block)
				if err != nil {
					return err
				}
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionBlockWindow, Window: w})
			}
			if cmd.Flags().Changed("boost") {
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionBoostPriority, Delta: boost})
			}
			if exclude != "" {
				date, err := parseDateFlag(exclude)
				if err != nil {
					return err
				}
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionExcludeDate, Date: date})
			}
			if cmd.Flags().Changed("daily-limit") {
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionLimitDailyMin, LimitMin: dailyLimit})
			}
			if cmd.Flags().Changed("weekly-limit") {
				r.Actions = append(r.Actions, domain.Action{Kind: domain.ActionLimitWeeklyMin, LimitMin: weeklyLimit})
			}

			if len(r.Actions) == 0 {
				return fmt.Errorf("at least one action flag is required")
			}

			if err := app.Rules.Create(context.Background(), r); err != nil {
				return err
			}

			fmt.Printf("Created rule %s\n", r.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Rule name")
	cmd.Flags().StringVar(&description, "description", "", "Rule description")
	cmd.Flags().IntVar(&priority, "priority", 0, "Evaluation priority, higher runs first")
	cmd.Flags().StringVar(&ifType, "if-type", "", "Match tasks of this type")
	cmd.Flags().StringVar(&ifName, "if-name", "", "Match tasks whose name contains this substring")
	cmd.Flags().StringVar(&ifPriority, "if-priority", "", "Match tasks with this priority")
	cmd.Flags().StringSliceVar(&ifDays, "if-days", nil, "Match on these weekdays (mon..sun)")
	cmd.Flags().StringVar(&restrict, "restrict", "", "Restrict placement to HH:MM-HH:MM")
	cmd.Flags().StringVar(&block, "block", "", "Forbid placement in HH:MM-HH:MM")
	cmd.Flags().IntVar(&boost, "boost", 0, "Shift priority by this many tiers")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Exclude a date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&dailyLimit, "daily-limit", 0, "Cap matched tasks at this many minutes per day")
	cmd.Flags().IntVar(&weeklyLimit, "weekly-limit", 0, "Cap matched tasks at this many minutes per week")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRuleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveRuleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Rules.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed rule %s\n", id)
			return nil
		},
	}
}

func newRuleTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in rule templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := app.Rules.Templates(context.Background())
			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				rows = append(rows, []string{
					formatter.Bold(t.Key),
					t.Name,
					formatter.Dim(t.Description),
				})
			}
			fmt.Printf("%s\n", formatter.RenderTable([]string{"KEY", "NAME", "DESCRIPTION"}, rows))
			return nil
		},
	}
}

func newRuleUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use KEY",
		Short: "Create a rule from a built-in template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Rules.CreateFromTemplate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created rule %s from template %q\n", r.Name, args[0])
			return nil
		},
	}
}
