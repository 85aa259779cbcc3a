package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)
	require.Equal(t, "https://josaa-admin-backend-1.onrender.com", cfg.Backend.URL)
	require.Zero(t, cfg.Backend.Timeout)
	require.Equal(t, StoreBackend, cfg.Store.Kind)
	require.Equal(t, []string{"iit", "iiit", "nit", "gfti"}, cfg.Records.CollegeTypes)
	require.Equal(t, []string{"about", "courses", "seat_matrix", "ranking"}, cfg.Records.Containers)
	require.Equal(t, []string{"nirf"}, cfg.Records.SpecialTabs)
	require.Contains(t, cfg.Records.ExamBasicFields, "State/Region")
	require.Equal(t, "Exam Pattern & Syllabus", cfg.Records.ExamTabs[3])
	require.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Tests below use t.Setenv and cannot run in parallel.

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  timeout: 15s
store:
  kind: file
  root: /srv/records
records:
  special_tabs: [nirf, qs]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "https://josaa-admin-backend-1.onrender.com", cfg.Backend.URL)
	require.Equal(t, StoreFile, cfg.Store.Kind)
	require.Equal(t, []string{"nirf", "qs"}, cfg.Records.SpecialTabs)
	require.Len(t, cfg.Records.CollegeTabs, 8)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "http://localhost:8000")
	t.Setenv(EnvHTTPTimeout, "2s")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	require.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "logging:\n  level: shout\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "store:\n  kind: s3\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "unknown_section: true\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv(EnvHTTPTimeout, "soon")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, StoreBackend, cfg.Store.Kind)
}
