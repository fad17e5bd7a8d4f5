package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/rubrics"
)

func newRubricCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Manage grading rubrics",
	}

	cmd.AddCommand(newRubricUploadCmd())

	return cmd
}

func newRubricUploadCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Validate and upload a grading rubric from a JSON file",
		Long: `Upload a rubric authored as a JSON file. The rubric is validated first:
every criterion needs a description and ratings with integer points, and
the criterion maxima must sum to the declared total_points. Invalid
rubrics are rejected without touching Canvas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rubric, err := rubrics.Load(file)
			if err != nil {
				return err
			}

			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			if err := rubrics.NewClient(api).Create(context.Background(), rubric); err != nil {
				return err
			}

			fmt.Printf("Rubric %q uploaded.\n", rubric.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the rubric JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
