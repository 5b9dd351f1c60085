// Package cli implements the timeloom command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jordanhale/timeloom/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Schedule    service.ScheduleService
	Rules       service.RuleService
	Sync        service.SyncService
	Projects    service.ProjectService
	Household   service.HouseholdService
	Courses     service.CourseService
	Assignments service.AssignmentService
	Config      service.ConfigService

	// Login runs the interactive OAuth flow; wired only when calendar
	// sync is configured.
	Login func(ctx context.Context) error

	// Serve starts the HTTP API; wired in main so the cli package does
	// not depend on the server.
	Serve func(ctx context.Context) error
}

// NewRootCmd creates the top-level "timeloom" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "timeloom",
		Short: "Automatic personal calendar scheduler",
	}

	root.AddCommand(
		newGenerateCmd(app),
		newSummaryCmd(app),
		newAgendaCmd(app),
		newClearCmd(app),
		newBlockCmd(app),
		newProjectCmd(app),
		newChoreCmd(app),
		newCourseCmd(app),
		newAssignmentCmd(app),
		newRuleCmd(app),
		newConfigCmd(app),
		newSyncCmd(app),
		newServeCmd(app),
	)

	return root
}
