package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosales/internal/config"
	"geosales/internal/storage/memory"
)

func baseConfig() *config.Config {
	return &config.Config{
		Currency:       "EUR",
		CurrencySymbol: "€",
		Locale:         "de",
		LogLevel:       "error",
	}
}

func TestNewReportingDefaults(t *testing.T) {
	rep, err := NewReporting(baseConfig(), memory.New(), SetupLogger("error"))
	require.NoError(t, err)

	assert.True(t, rep.Directory.Exists("US"))
	assert.Equal(t, "EUR", rep.Renderer.Formatter().Currency())

	r, err := rep.Service.Select(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestNewReportingCountriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("countries:\n  XA: Atlantis\n"), 0o600))

	cfg := baseConfig()
	cfg.CountriesFile = path
	rep, err := NewReporting(cfg, memory.New(), SetupLogger("error"))
	require.NoError(t, err)
	assert.True(t, rep.Directory.Exists("XA"))
	assert.False(t, rep.Directory.Exists("US"))
	assert.Equal(t, "Atlantis", rep.Renderer.CountryName("XA"))
}

func TestNewReportingErrors(t *testing.T) {
	cfg := baseConfig()
	cfg.CountriesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewReporting(cfg, memory.New(), SetupLogger("error"))
	assert.Error(t, err)

	cfg = baseConfig()
	cfg.Currency = "???"
	_, err = NewReporting(cfg, memory.New(), SetupLogger("error"))
	assert.ErrorContains(t, err, "report formatting")
}

func TestNewExporterDisabled(t *testing.T) {
	rep, err := NewReporting(baseConfig(), memory.New(), SetupLogger("error"))
	require.NoError(t, err)

	exp, err := NewExporter(context.Background(), baseConfig(), rep, SetupLogger("error"))
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestSetupLoggerUnknownLevel(t *testing.T) {
	logger := SetupLogger("verbose")
	require.NotNil(t, logger)
	assert.Equal(t, "app", logger.Component())
}
