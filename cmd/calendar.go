package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hicanvas/canvasctl/internal/calendar"
	"github.com/hicanvas/canvasctl/internal/config"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage the course calendar",
		Long: `Create, list, and delete calendar events of the configured course.

The sync subcommand replaces the whole course calendar with the contents
of a JSON file, one event per entry:

  [
    {"title": "Week 1", "date": "2025-02-03", "time": "10:00",
     "etime": "12:00", "description": "Introduction"}
  ]`,
	}

	cmd.AddCommand(newCalendarCreateCmd())
	cmd.AddCommand(newCalendarListCmd())
	cmd.AddCommand(newCalendarClearCmd())
	cmd.AddCommand(newCalendarSyncCmd())

	return cmd
}

func newCalendarClient() (*config.Config, *calendar.Client, error) {
	cfg, api, err := newCanvasClient()
	if err != nil {
		return nil, nil, err
	}
	return cfg, calendar.NewClient(api, cfg), nil
}

func newCalendarCreateCmd() *cobra.Command {
	var input calendar.EventInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newCalendarClient()
			if err != nil {
				return err
			}

			event, err := client.CreateEvent(context.Background(), input)
			if err != nil {
				return err
			}

			fmt.Printf("Created event %d: %s\n", event.ID, event.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&input.Date, "date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.StartTime, "start-time", "", "Start time (HH:MM, 24-hour)")
	cmd.Flags().StringVar(&input.EndTime, "end-time", "", "End time (HH:MM, 24-hour)")
	cmd.Flags().StringVar(&input.Description, "description", "", "Event description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start-time")
	_ = cmd.MarkFlagRequired("end-time")

	return cmd
}

func newCalendarListCmd() *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events within a date range",
		Long: `List calendar events of the course. Without flags the range defaults
to the configured course start and end dates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newCalendarClient()
			if err != nil {
				return err
			}

			start, end := cfg.StartDate, cfg.EndDate
			if startStr != "" {
				if start, err = time.Parse(config.DateLayout, startStr); err != nil {
					return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", startStr)
				}
			}
			if endStr != "" {
				if end, err = time.Parse(config.DateLayout, endStr); err != nil {
					return fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", endStr)
				}
			}

			events, err := client.ListEvents(context.Background(), start, end)
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Println("No events found.")
				return nil
			}
			for _, event := range events {
				fmt.Printf("[%d] %s: %s - %s\n",
					event.ID, event.Title,
					event.StartAt.Format(time.RFC3339), event.EndAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "Start of the range (YYYY-MM-DD), defaults to the course start date")
	cmd.Flags().StringVar(&endStr, "end", "", "End of the range (YYYY-MM-DD), defaults to the course end date")

	return cmd
}

func newCalendarClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all calendar events within the course date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newCalendarClient()
			if err != nil {
				return err
			}

			result, err := client.DeleteAllEvents(context.Background())
			if result != nil {
				fmt.Printf("Deleted %d event(s), skipped %d already-deleted event(s).\n",
					result.Deleted, result.Skipped)
				for _, failure := range result.Failures {
					fmt.Printf("Failed to delete [%d] %s: %v\n", failure.EventID, failure.Title, failure.Err)
				}
			}
			return err
		},
	}
}

func newCalendarSyncCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace the course calendar with the contents of a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := calendar.LoadSyncFile(file)
			if err != nil {
				return err
			}

			_, client, err := newCalendarClient()
			if err != nil {
				return err
			}

			if err := client.SyncEvents(context.Background(), entries); err != nil {
				return err
			}

			fmt.Printf("Calendar synced, %d event(s) created.\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the calendar JSON file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
