package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/groups"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage course groups",
	}

	cmd.AddCommand(newGroupsSyncCmd())

	return cmd
}

func newGroupsSyncCmd() *cobra.Command {
	var file, category string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Assign students to groups from a semicolon-separated roster file",
		Long: `Read a roster file with one line per student:

  <canvas user id>;<group number>;<student name>

and place every student into the group "<category>-<group number>" of the
named group category. The category and missing groups are created on
demand; students already in their group are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open roster file: %w", err)
			}
			defer f.Close()

			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			if err := groups.NewClient(api).SyncRoster(context.Background(), f, category); err != nil {
				return err
			}

			fmt.Println("Groups synced.")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the roster file")
	cmd.Flags().StringVar(&category, "category", "", "Group category name (e.g. 'Project')")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
