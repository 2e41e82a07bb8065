package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	config "corhyn.com/corhyn/internal/configs"
	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/internal/render"
	repository "corhyn.com/corhyn/internal/repositories"
	"corhyn.com/corhyn/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "corhyn",
	Short:         "Corhyn - Your Personal Task Management CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		render.Error(os.Stderr, err)
		os.Exit(apperrors.ExitCode(err))
	}
}

// app holds the services a command needs for one invocation.
type app struct {
	cfg      config.Config
	db       *gorm.DB
	logFile  io.Closer
	tasks    *services.TaskService
	tags     *services.TagService
	tracking *services.TrackingService
	stats    *services.StatsService
}

func loadConfig() (config.Config, io.Closer, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logFile, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logFile, nil
}

func newApp() (*app, error) {
	cfg, logFile, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := config.NewDatabaseClient(cfg.DatabaseDSN)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	policy := repository.OrphanTimeEntries
	if cfg.CascadeTimeEntries {
		policy = repository.CascadeTimeEntries
	}

	taskRepo := repository.NewTaskRepository(db, policy)

	return &app{
		cfg:      cfg,
		db:       db,
		logFile:  logFile,
		tasks:    services.NewTaskService(taskRepo, nil),
		tags:     services.NewTagService(repository.NewTagRepository(db), nil),
		tracking: services.NewTrackingService(taskRepo, repository.NewTimeEntryRepository(db), nil),
		stats:    services.NewStatsService(repository.NewStatsRepository(db), nil),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	a.logFile.Close()
}

// withApp opens the store for the duration of run.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := run(cmd, args, a); err != nil {
			log.Error().Err(err).Str("command", cmd.CommandPath()).Msg("command failed")
			return err
		}
		return nil
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%q: %w", arg, apperrors.ErrInvalidTaskID)
	}
	return uint(id), nil
}
