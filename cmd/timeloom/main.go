package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/jordanhale/timeloom/internal/cli"
	"github.com/jordanhale/timeloom/internal/config"
	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/googlecal"
	"github.com/jordanhale/timeloom/internal/httpapi"
	"github.com/jordanhale/timeloom/internal/repository"
	"github.com/jordanhale/timeloom/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --config is handled before cobra so every command sees the same
	// loaded configuration.
	configPath := ""
	fs := pflag.NewFlagSet("pre", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVar(&configPath, "config", "", "Config file path")
	fs.Usage = func() {}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	householdRepo := repository.NewSQLiteHouseholdTaskRepo(database)
	courseRepo := repository.NewSQLiteCourseRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	commitmentRepo := repository.NewSQLiteCommitmentRepo(database)
	blockRepo := repository.NewSQLiteBlockRepo(database)
	ruleRepo := repository.NewSQLiteRuleRepo(database)
	configRepo := repository.NewSQLiteConfigRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// The calendar client is wired only when sync is configured; the
	// sync service degrades to ErrSyncNotConfigured without it.
	var calClient service.CalendarClient
	creds := googlecal.Credentials{
		ClientSecretsPath: cfg.Calendar.ClientSecretsPath,
		TokenPath:         cfg.Calendar.TokenPath,
	}
	if cfg.Calendar.Enabled {
		client, err := googlecal.NewClient(context.Background(), creds)
		if err != nil {
			log.Warn().Err(err).Msg("calendar sync unavailable")
		} else {
			calClient = client
		}
	}

	ruleSvc := service.NewRuleService(ruleRepo)
	syncSvc := service.NewSyncService(calClient, cfg.Calendar.CalendarID, commitmentRepo, log)
	scheduleSvc := service.NewScheduleService(
		projectRepo, assignmentRepo, householdRepo, commitmentRepo,
		blockRepo, ruleRepo, configRepo, uow, syncSvc, log,
	)

	app := &cli.App{
		Schedule:    scheduleSvc,
		Rules:       ruleSvc,
		Sync:        syncSvc,
		Projects:    service.NewProjectService(projectRepo),
		Household:   service.NewHouseholdService(householdRepo),
		Courses:     service.NewCourseService(courseRepo, commitmentRepo),
		Assignments: service.NewAssignmentService(assignmentRepo, courseRepo),
		Config:      service.NewConfigService(configRepo),
	}

	if cfg.Calendar.ClientSecretsPath != "" {
		app.Login = func(ctx context.Context) error {
			return googlecal.Login(ctx, creds, os.Stdout)
		}
	}

	app.Serve = func(ctx context.Context) error {
		// Long-running mode follows config file edits; log level changes
		// apply without a restart.
		updates, werr := config.Watch(ctx, configPath, log)
		if werr != nil {
			log.Warn().Err(werr).Msg("config watch unavailable")
		} else {
			go func() {
				for next := range updates {
					applyLogLevel(log, next.LogLevel)
				}
			}()
		}

		srv := httpapi.NewServer(cfg.HTTP.Addr, scheduleSvc, ruleSvc, syncSvc, log)
		return srv.ListenAndServe(ctx)
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	return rootCmd.Execute()
}

// newLogger builds the process logger: human-readable on a terminal,
// JSON otherwise. The level is global so config reloads can adjust it
// for every logger at once.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out = os.Stderr
	logger := zerolog.New(out)
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	return logger.With().Timestamp().Logger()
}

func applyLogLevel(log zerolog.Logger, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("ignoring invalid log level")
		return
	}
	if lvl != zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
		log.Info().Str("level", lvl.String()).Msg("log level updated")
	}
}
