// Package cmd implements the command-line interface for canvasctl.
//
// This package provides the following commands:
//   - calendar: Create, list, clear, and sync course calendar events
//   - students: Export the course roster as CSV
//   - groups: Assign students to course groups from a roster file
//   - assignments: List, inspect, and push course assignments
//   - rubric: Validate and upload grading rubrics
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
package cmd
