package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by Load.
const (
	EnvInstitutionURL = "INSTITUTION_URL"
	EnvAPIVersion     = "API_VERSION"
	EnvAPIToken       = "API_TOKEN"
	EnvCanvasAPIToken = "CANVAS_API_TOKEN"
	EnvCourseID       = "COURSE_ID"
	EnvStartDate      = "START_DATE"
	EnvEndDate        = "END_DATE"
)

// DefaultAPIVersion is used when API_VERSION is not set.
const DefaultAPIVersion = "v1"

// DateLayout is the expected format for START_DATE and END_DATE.
const DateLayout = "2006-01-02"

// Config holds the Canvas connection settings for a single course.
// It is loaded once per process and treated as immutable afterwards.
type Config struct {
	// InstitutionURL is the base URL of the Canvas institution,
	// e.g. "https://canvas.example.edu"
	InstitutionURL string

	// APIVersion is the Canvas API version segment (default: "v1")
	APIVersion string

	// APIToken is the Canvas bearer token sent with every request
	APIToken string

	// CourseID is the numeric ID of the course being managed
	CourseID string

	// StartDate and EndDate bound the date window for calendar operations
	StartDate time.Time
	EndDate   time.Time
}

// ConfigError reports a missing or malformed configuration variable.
type ConfigError struct {
	// Var is the environment variable at fault
	Var string

	// Reason describes what is wrong with it
	Reason string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Var, e.Reason)
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present, matching how the Canvas
// token is usually distributed to course staff.
//
// Load validates everything up front so that a bad environment fails here
// rather than partway through a sequence of API requests.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !strings.Contains(err.Error(), "no such file") {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		InstitutionURL: strings.TrimSuffix(os.Getenv(EnvInstitutionURL), "/"),
		APIVersion:     os.Getenv(EnvAPIVersion),
		APIToken:       os.Getenv(EnvAPIToken),
		CourseID:       os.Getenv(EnvCourseID),
	}

	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv(EnvCanvasAPIToken)
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}

	if cfg.InstitutionURL == "" {
		return nil, &ConfigError{Var: EnvInstitutionURL, Reason: "is missing"}
	}
	if !strings.HasPrefix(cfg.InstitutionURL, "http://") && !strings.HasPrefix(cfg.InstitutionURL, "https://") {
		return nil, &ConfigError{Var: EnvInstitutionURL, Reason: "must start with http:// or https://"}
	}
	if cfg.APIToken == "" {
		return nil, &ConfigError{Var: EnvAPIToken, Reason: "is missing (CANVAS_API_TOKEN is accepted as a fallback)"}
	}
	if cfg.CourseID == "" {
		return nil, &ConfigError{Var: EnvCourseID, Reason: "is missing"}
	}

	var err error
	cfg.StartDate, err = parseDate(EnvStartDate, os.Getenv(EnvStartDate))
	if err != nil {
		return nil, err
	}
	cfg.EndDate, err = parseDate(EnvEndDate, os.Getenv(EnvEndDate))
	if err != nil {
		return nil, err
	}
	if cfg.EndDate.Before(cfg.StartDate) {
		return nil, &ConfigError{Var: EnvEndDate, Reason: "must not be before " + EnvStartDate}
	}

	return cfg, nil
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &ConfigError{Var: name, Reason: "is missing"}
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ConfigError{Var: name, Reason: fmt.Sprintf("is not a valid date (want %s): %v", DateLayout, err)}
	}
	return t, nil
}

// ContextCode returns the Canvas context code tying calendar events to the
// configured course, e.g. "course_1234".
func (c *Config) ContextCode() string {
	return "course_" + c.CourseID
}

// BaseURL returns the versioned API root, e.g.
// "https://canvas.example.edu/api/v1".
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s/api/%s", c.InstitutionURL, c.APIVersion)
}
