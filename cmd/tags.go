package cmd

import (
	"github.com/spf13/cobra"

	"corhyn.com/corhyn/internal/render"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags",
	Args:  cobra.NoArgs,
	RunE:  withApp(listTags),
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with the number of tasks using each",
	Args:  cobra.NoArgs,
	RunE:  withApp(listTags),
}

func listTags(cmd *cobra.Command, args []string, a *app) error {
	tags, err := a.tags.ListTags(cmd.Context())
	if err != nil {
		return err
	}

	render.Tags(cmd.OutOrStdout(), tags)
	return nil
}

var tagsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		color, _ := cmd.Flags().GetString("color")

		tag, err := a.tags.CreateTag(cmd.Context(), args[0], color)
		if err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Tag %q created.", tag.Name)
		return nil
	}),
}

var tagsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tag",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		tag, err := a.tags.RenameTag(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Tag %q renamed to %q.", args[0], tag.Name)
		return nil
	}),
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a tag and detach it from all tasks",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.tags.DeleteTag(cmd.Context(), args[0]); err != nil {
			return err
		}

		render.Success(cmd.OutOrStdout(), "Tag %q deleted.", args[0])
		return nil
	}),
}

func init() {
	tagsAddCmd.Flags().StringP("color", "c", "", "Tag color")

	tagsCmd.AddCommand(tagsListCmd, tagsAddCmd, tagsRenameCmd, tagsDeleteCmd)
	rootCmd.AddCommand(tagsCmd)
}
