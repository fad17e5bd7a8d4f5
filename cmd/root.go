package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/canvas"
	"github.com/hicanvas/canvasctl/internal/config"
)

// rootCmd represents the base command for the canvasctl application
var rootCmd = &cobra.Command{
	Use:   "canvasctl",
	Short: "Manage a Canvas LMS course from the command line",
	Long: `canvasctl manages a single Canvas LMS course: its calendar, student
roster, groups, assignments, and grading rubrics.

Configuration comes from the environment (or a .env file):
  INSTITUTION_URL   Base URL of the Canvas instance
  API_VERSION       Canvas API version (e.g. v1)
  CANVAS_API_TOKEN  Canvas API access token
  COURSE_ID         Numeric ID of the course to manage
  START_DATE        Course start date (YYYY-MM-DD)
  END_DATE          Course end date (YYYY-MM-DD)

It can also run as an MCP (Model Context Protocol) server for AI
assistants via the serve command.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "canvasctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newCanvasClient loads the environment configuration and builds the core
// API client every subcommand shares.
func newCanvasClient() (*config.Config, *canvas.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, canvas.New(cfg), nil
}

func init() {
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newStudentsCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newAssignmentsCmd())
	rootCmd.AddCommand(newRubricCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
