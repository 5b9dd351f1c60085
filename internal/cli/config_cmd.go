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

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and tune scheduling settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(app),
		newConfigSetCmd(app),
		newConfigWorkdayCmd(app),
		newConfigProtectCmd(app),
		newConfigUnprotectCmd(app),
	)

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show scheduling settings, work hours, and protected time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := app.Config.GetConfig(ctx)
			if err != nil {
				return err
			}
			ws, err := app.Config.GetWorkSchedule(ctx)
			if err != nil {
				return err
			}
			protected, err := app.Config.ListProtectedIntervals(ctx)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(formatter.Header("Scheduling") + "\n")
			b.WriteString(fmt.Sprintf("  Day window       %s-%s\n", cfg.DayStart, cfg.DayEnd))
			b.WriteString(fmt.Sprintf("  Block size       %s preferred, %s minimum\n",
				formatter.FormatMinutes(cfg.PreferredBlockMin), formatter.FormatMinutes(cfg.MinBlockMin)))
			b.WriteString(fmt.Sprintf("  Break            %s\n", formatter.FormatMinutes(cfg.MinBreakMin)))
			b.WriteString(fmt.Sprintf("  Daily cap        %s\n", formatter.FormatMinutes(cfg.MaxDailyScheduledMin)))
			b.WriteString(fmt.Sprintf("  Horizon          %d days\n", cfg.HorizonDays))
			b.WriteString(fmt.Sprintf("  Timezone         %s\n", cfg.Timezone))

			b.WriteString("\n" + formatter.Header("Work hours") + "\n")
			dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
			for i, d := range ws {
				if d.IsWorkingDay {
					b.WriteString(fmt.Sprintf("  %s  %s-%s\n", dayNames[i], d.Start, d.End))
				} else {
					b.WriteString(fmt.Sprintf("  %s  %s\n", dayNames[i], formatter.Dim("off")))
				}
			}

			b.WriteString("\n" + formatter.Header("Protected time") + "\n")
			for _, p := range protected {
				when := "every day"
				if p.Date != nil {
					when = p.Date.Format("2006-01-02")
				}
				b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
					formatter.TruncID(p.ID), formatter.Bold(p.Label), p.Window, formatter.Dim(when)))
			}

			fmt.Println(b.String())
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var dayStart, dayEnd, timezone string
	var blockMin, minBlock, breakMin, dailyCap, horizon int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update scheduling settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := app.Config.GetConfig(ctx)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("day-start") {
				c, err := domain.ParseClock(dayStart)
				if err != nil {
					return err
				}
				cfg.DayStart = c
			}
			if cmd.Flags().Changed("day-end") {
				c, err := domain.ParseClock(dayEnd)
				if err != nil {
					return err
				}
				cfg.DayEnd = c
			}
			if cmd.Flags().Changed("block") {
				cfg.PreferredBlockMin = blockMin
			}
			if cmd.Flags().Changed("min-block") {
				cfg.MinBlockMin = minBlock
			}
			if cmd.Flags().Changed("break") {
				cfg.MinBreakMin = breakMin
			}
			if cmd.Flags().Changed("daily-cap") {
				cfg.MaxDailyScheduledMin = dailyCap
			}
			if cmd.Flags().Changed("horizon") {
				cfg.HorizonDays = horizon
			}
			if cmd.Flags().Changed("timezone") {
				cfg.Timezone = timezone
			}

			if err := app.Config.UpdateConfig(ctx, cfg); err != nil {
				return err
			}

			fmt.Println("Updated scheduling settings")
			return nil
		},
	}

	cmd.Flags().StringVar(&dayStart, "day-start", "", "Earliest schedulable time (HH:MM)")
	cmd.Flags().StringVar(&dayEnd, "day-end", "", "Latest schedulable time (HH:MM)")
	cmd.Flags().IntVar(&blockMin, "block", 0, "Preferred block size in minutes")
	cmd.Flags().IntVar(&minBlock, "min-block", 0, "Smallest usable interval in minutes")
	cmd.Flags().IntVar(&breakMin, "break", 0, "Break after each block in minutes")
	cmd.Flags().IntVar(&dailyCap, "daily-cap", 0, "Max scheduled minutes per day, 0 for unlimited")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "Default horizon in days")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone name")

	return cmd
}

func newConfigWorkdayCmd(app *App) *cobra.Command {
	var start, end string
	var off bool

	cmd := &cobra.Command{
		Use:   "workday DAY",
		Short: "Set work hours for a weekday (mon..sun)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := map[string]int{"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6}
			idx, ok := days[args[0]]
			if !ok {
				return fmt.Errorf("unknown weekday %q, expected mon..sun", args[0])
			}

			ctx := context.Background()
			ws, err := app.Config.GetWorkSchedule(ctx)
			if err != nil {
				return err
			}

			if off {
				ws[idx] = domain.DaySchedule{}
			} else {
				s, err := domain.ParseClock(start)
				if err != nil {
					return err
				}
				e, err := domain.ParseClock(end)
				if err != nil {
					return err
				}
				ws[idx] = domain.DaySchedule{IsWorkingDay: true, Start: s, End: e}
			}

			if err := app.Config.UpdateWorkSchedule(ctx, ws); err != nil {
				return err
			}

			fmt.Printf("Updated work hours for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Work start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Work end (HH:MM)")
	cmd.Flags().BoolVar(&off, "off", false, "Mark the day as non-working")

	return cmd
}

func newConfigProtectCmd(app *App) *cobra.Command {
	var label, window, date string

	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Add a protected interval no task may occupy",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWindowFlag(window)
			if err != nil {
				return err
			}

			p := &domain.ProtectedInterval{
				ID:     uuid.New().String(),
				Label:  label,
				Window: w,
			}
			if date != "" {
				d, err := parseDateFlag(date)
				if err != nil {
					return err
				}
				p.Date = &d
			}

			if err := app.Config.CreateProtectedInterval(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Protected %s (%s)\n", p.Label, p.Window)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Interval label")
	cmd.Flags().StringVar(&window, "window", "", "Window (HH:MM-HH:MM)")
	cmd.Flags().StringVar(&date, "date", "", "Apply only on this date (YYYY-MM-DD); recurs daily when unset")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("window")

	return cmd
}

func newConfigUnprotectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unprotect ID",
		Short: "Remove a protected interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			protected, err := app.Config.ListProtectedIntervals(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(protected))
			for _, p := range protected {
				ids = append(ids, p.ID)
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return fmt.Errorf("protected interval %w", err)
			}
			if err := app.Config.DeleteProtectedInterval(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed protected interval %s\n", id)
			return nil
		},
	}
}
