package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/assignments"
)

func newAssignmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Manage course assignments",
	}

	cmd.AddCommand(newAssignmentsListCmd())
	cmd.AddCommand(newAssignmentsOverviewCmd())
	cmd.AddCommand(newAssignmentsPushCmd())

	return cmd
}

func newAssignmentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all assignments of the course",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			list, err := assignments.NewClient(api).List(context.Background())
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Println("No assignments found.")
				return nil
			}
			for _, a := range list {
				state := "unpublished"
				if a.Published {
					state = "published"
				}
				fmt.Printf("[%d] %s (%.1f pts, %s)\n", a.ID, a.Name, a.PointsPossible, state)
			}
			return nil
		},
	}
}

func newAssignmentsOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show assignments nested under their assignment groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			overview, err := assignments.NewClient(api).Overview(context.Background())
			if err != nil {
				return err
			}

			ids := make([]int64, 0, len(overview))
			for id := range overview {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

			for _, id := range ids {
				group := overview[id]
				fmt.Printf("%s:\n", group.Name)
				for _, a := range group.Assignments {
					fmt.Printf("  [%d] %s (%.1f pts)\n", a.ID, a.Name, a.PointsPossible)
				}
			}
			return nil
		},
	}
}

func newAssignmentsPushCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Create or update an assignment from a JSON file",
		Long: `Push an assignment authored as a JSON file to the course. An assignment
carrying an ID is updated in place; one without an ID, or whose ID no
longer exists, is created. Published assignments are never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read assignment file: %w", err)
			}

			var assignment assignments.Assignment
			if err := json.Unmarshal(data, &assignment); err != nil {
				return fmt.Errorf("failed to parse assignment file %s: %w", file, err)
			}

			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			pushed, err := assignments.NewClient(api).Push(context.Background(), assignment)
			if err != nil {
				return err
			}

			fmt.Printf("Pushed assignment %d: %s\n", pushed.ID, pushed.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the assignment JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
