package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvInstitutionURL, "https://canvas.example.edu")
	t.Setenv(EnvAPIVersion, "v1")
	t.Setenv(EnvAPIToken, "secret-token")
	t.Setenv(EnvCanvasAPIToken, "")
	t.Setenv(EnvCourseID, "1234")
	t.Setenv(EnvStartDate, "2025-01-06")
	t.Setenv(EnvEndDate, "2025-04-25")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://canvas.example.edu", cfg.InstitutionURL)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, "secret-token", cfg.APIToken)
	assert.Equal(t, "1234", cfg.CourseID)
	assert.Equal(t, "course_1234", cfg.ContextCode())
	assert.Equal(t, "https://canvas.example.edu/api/v1", cfg.BaseURL())
	assert.True(t, cfg.EndDate.After(cfg.StartDate))
}

func TestLoad_TokenFallback(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvCanvasAPIToken, "fallback-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback-token", cfg.APIToken)
}

func TestLoad_DefaultAPIVersion(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvAPIVersion, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
}

func TestLoad_TrailingSlashTrimmed(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvInstitutionURL, "https://canvas.example.edu/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.example.edu/api/v1", cfg.BaseURL())
}

func TestLoad_MissingVars(t *testing.T) {
	tests := []struct {
		name    string
		clear   string
		wantVar string
	}{
		{name: "missing institution URL", clear: EnvInstitutionURL, wantVar: EnvInstitutionURL},
		{name: "missing token", clear: EnvAPIToken, wantVar: EnvAPIToken},
		{name: "missing course ID", clear: EnvCourseID, wantVar: EnvCourseID},
		{name: "missing start date", clear: EnvStartDate, wantVar: EnvStartDate},
		{name: "missing end date", clear: EnvEndDate, wantVar: EnvEndDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.clear, "")

			_, err := Load()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
			assert.Equal(t, tt.wantVar, cfgErr.Var)
		})
	}
}

func TestLoad_MalformedDate(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvStartDate, "06.01.2025")

	_, err := Load()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, EnvStartDate, cfgErr.Var)
}

func TestLoad_EndBeforeStart(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvStartDate, "2025-04-25")
	t.Setenv(EnvEndDate, "2025-01-06")

	_, err := Load()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, EnvEndDate, cfgErr.Var)
}

func TestLoad_BadScheme(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvInstitutionURL, "canvas.example.edu")

	_, err := Load()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, EnvInstitutionURL, cfgErr.Var)
}
