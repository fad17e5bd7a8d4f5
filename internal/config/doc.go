// Package config loads the Canvas connection settings from the environment.
//
// Configuration is read once at startup and validated eagerly: a missing or
// malformed variable surfaces as a *ConfigError before any API request is
// made. A .env file in the working directory is honored, which is the usual
// way course staff keep their Canvas token out of the shell history.
//
// Required variables:
//   - INSTITUTION_URL: base URL of the Canvas institution
//   - API_TOKEN (or CANVAS_API_TOKEN): Canvas bearer token
//   - COURSE_ID: numeric ID of the course
//   - START_DATE, END_DATE: date window (YYYY-MM-DD) for calendar operations
//
// Optional variables:
//   - API_VERSION: Canvas API version segment (default: v1)
package config
