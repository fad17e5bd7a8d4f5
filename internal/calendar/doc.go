// Package calendar manages Canvas calendar events for a course.
//
// This package offers the event operations course staff need between
// semesters:
//   - Creating events from a date plus wall-clock start/end times
//   - Listing events in a date window, following pagination
//   - Deleting a single event, or clearing the whole configured window
//   - Syncing the calendar from a JSON course plan (clear, then recreate)
//
// Bulk deletion keeps going when individual events fail to delete: every
// failure is logged and collected into the ClearResult, and the joined
// error of all failures is returned so callers can still fail a run that
// was only partially successful.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cal := calendar.NewClient(canvas.New(cfg), cfg)
//
//	event, err := cal.CreateEvent(ctx, calendar.EventInput{
//	    Title:     "Midterm",
//	    Date:      "2025-04-01",
//	    StartTime: "10:00",
//	    EndTime:   "11:00",
//	})
package calendar
