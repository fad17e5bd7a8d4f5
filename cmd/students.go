package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/students"
)

func newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Work with the course roster",
	}

	cmd.AddCommand(newStudentsExportCmd())

	return cmd
}

func newStudentsExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the student roster as CSV",
		Long: `Export all students enrolled in the course as CSV with the columns
id, name, and login_id. Writes to stdout unless --out is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := newCanvasClient()
			if err != nil {
				return err
			}

			roster, err := students.NewClient(api).ListStudents(context.Background())
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := students.WriteCSV(w, roster); err != nil {
				return err
			}

			if out != "" {
				fmt.Printf("Exported %d student(s) to %s\n", len(roster), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")

	return cmd
}
