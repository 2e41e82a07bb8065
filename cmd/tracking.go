package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/internal/render"
	model "corhyn.com/corhyn/pkg/models"
)

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start time tracking for a task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		entry, err := a.tracking.Start(cmd.Context(), id)
		if err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Started tracking task %d at %s.", id, entry.StartTime.In(time.Local).Format("15:04:05"))
		return nil
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running time tracking session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		entry, err := a.tracking.Stop(cmd.Context())
		if err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Stopped tracking task %d. Duration: %s", entry.TaskID, render.Duration(*entry.Duration))
		return nil
	}),
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Inspect and manage time entries",
}

var timeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries, newest first",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		rows, err := a.tracking.List(cmd.Context())
		if err != nil {
			return err
		}

		render.TimeEntries(cmd.OutOrStdout(), rows, time.Local)
		return nil
	}),
}

var timeAddCmd = &cobra.Command{
	Use:   "add <id> <minutes>",
	Short: "Record a manual time entry starting now",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%q: %w", args[1], apperrors.ErrInvalidMinutes)
		}

		if _, err := a.tracking.AddManual(cmd.Context(), id, minutes); err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Added %d minutes to task %d.", minutes, id)
		return nil
	}),
}

var timeExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all time entries to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) (err error) {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = cerr
			}
		}()

		w := bufio.NewWriter(f)
		n, err := a.tracking.Export(cmd.Context(), w)
		if err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Exported %d time entries to %s.", n, args[0])
		return nil
	}),
}

var timeCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the running session, if any",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		entry, err := a.tracking.Current(cmd.Context())
		if err != nil {
			return err
		}

		title, err := sessionTitle(cmd.Context(), a.tasks, entry.TaskID)
		if err != nil {
			return err
		}

		elapsed := time.Since(entry.StartTime)
		render.Panel(cmd.OutOrStdout(), "Tracking", fmt.Sprintf("%s\nstarted %s, running %s",
			title,
			entry.StartTime.In(time.Local).Format("2006-01-02 15:04:05"),
			render.Duration(int64(elapsed/time.Second))))
		return nil
	}),
}

type taskGetter interface {
	GetTask(ctx context.Context, id uint) (*model.Task, error)
}

// sessionTitle names the task a session belongs to. Sessions may outlive
// their task; any other lookup failure is returned.
func sessionTitle(ctx context.Context, tasks taskGetter, taskID uint) (string, error) {
	task, err := tasks.GetTask(ctx, taskID)
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		return fmt.Sprintf("(deleted task %d)", taskID), nil
	}
	if err != nil {
		return "", err
	}
	return task.Title, nil
}

func init() {
	timeCmd.AddCommand(timeListCmd, timeAddCmd, timeExportCmd, timeCurrentCmd)
	rootCmd.AddCommand(startCmd, stopCmd, timeCmd)
}
