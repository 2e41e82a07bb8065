package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/internal/render"
	"corhyn.com/corhyn/internal/services"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task to your list",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		req := validators.CreateTaskRequest{Title: args[0]}
		req.Description, _ = cmd.Flags().GetString("description")
		req.Priority, _ = cmd.Flags().GetString("priority")
		req.Deadline, _ = cmd.Flags().GetString("deadline")
		req.Tags, _ = cmd.Flags().GetString("tags")

		task, err := a.tasks.CreateTask(cmd.Context(), req)
		if err != nil {
			return err
		}

		render.Panel(cmd.OutOrStdout(), "", render.SuccessText("Task added successfully: %s (id %d)", task.Title, task.ID))
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with optional filtering",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		opts := services.ListOptions{}
		opts.Status, _ = cmd.Flags().GetString("status")
		opts.Priority, _ = cmd.Flags().GetString("priority")
		opts.Tags, _ = cmd.Flags().GetString("tags")
		opts.IncludeCompleted, _ = cmd.Flags().GetBool("all")

		tasks, err := a.tasks.ListTasks(cmd.Context(), opts)
		if err != nil {
			return err
		}

		render.Tasks(cmd.OutOrStdout(), tasks, time.Local)
		return nil
	}),
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search task titles",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		tasks, err := a.tasks.SearchTasks(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		render.Tasks(cmd.OutOrStdout(), tasks, time.Local)
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		task, err := a.tasks.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}

		render.Task(cmd.OutOrStdout(), task, time.Local)
		return nil
	}),
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return setStatus(cmd, a, args[0], string(constants.StatusCompleted))
	}),
}

var statusCmd = &cobra.Command{
	Use:       "status <id> <pending|completed>",
	Short:     "Set the status of a task",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(constants.StatusPending), string(constants.StatusCompleted)},
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return setStatus(cmd, a, args[0], args[1])
	}),
}

func setStatus(cmd *cobra.Command, a *app, rawID, status string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	task, changed, err := a.tasks.SetStatus(cmd.Context(), id, status)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !changed && task.IsCompleted():
		render.Warn(out, "Task %d is already completed.", id)
	case !changed:
		render.Warn(out, "Task %d is already %s.", id, task.Status)
	default:
		render.Success(out, "Task %d marked as %s.", id, task.Status)
	}
	return nil
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		req := validators.UpdateTaskRequest{
			Title:       changedString(cmd, "title"),
			Description: changedString(cmd, "description"),
			Priority:    changedString(cmd, "priority"),
			Deadline:    changedString(cmd, "deadline"),
			Tags:        changedString(cmd, "tags"),
		}

		task, err := a.tasks.EditTask(cmd.Context(), id, req)
		if errors.Is(err, apperrors.ErrNothingToUpdate) {
			render.Warn(cmd.OutOrStdout(), "Nothing changed: pass at least one of --title, --description, --priority, --deadline, --tags.")
			return nil
		}
		if err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Task %d updated.", task.ID)
		render.Task(cmd.OutOrStdout(), task, time.Local)
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := a.tasks.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Task %d deleted.", id)
		return nil
	}),
}

// changedString returns the flag value only when the user passed the flag.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "Task description")
	addCmd.Flags().StringP("priority", "p", "", "Task priority (low/medium/high)")
	addCmd.Flags().String("deadline", "", "Task deadline")
	addCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")

	listCmd.Flags().StringP("status", "s", "", "Filter by status (pending/completed)")
	listCmd.Flags().StringP("priority", "p", "", "Filter by priority (low/medium/high)")
	listCmd.Flags().StringP("tags", "t", "", "Only tasks carrying all of these comma-separated tags")
	listCmd.Flags().BoolP("all", "a", false, "Include completed tasks")

	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("description", "d", "", "New description (empty clears it)")
	editCmd.Flags().StringP("priority", "p", "", "New priority (empty clears it)")
	editCmd.Flags().String("deadline", "", "New deadline (empty clears it)")
	editCmd.Flags().StringP("tags", "t", "", "Replace tags with this comma-separated list")

	rootCmd.AddCommand(addCmd, listCmd, searchCmd, showCmd, completeCmd, statusCmd, editCmd, deleteCmd)
}
