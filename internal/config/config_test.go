package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
dbname = "assistance"
user = "app"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Booking.MaxAdmissionRetries)
	assert.Equal(t, "REQ-", cfg.Booking.RequestNumberPrefix)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db.local"
password = "from-file"
dbname = "assistance"
`)
	t.Setenv(EnvDBPassword, "from-env")
	t.Setenv(EnvDBHost, "db.prod")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "db.prod", cfg.Database.Host)
	assert.Contains(t, cfg.Database.DSN(), "host=db.prod")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "[server]\nhttp_port = 0\n[database]\ndbname = \"x\"\n"},
		{"unknown driver", "[database]\ndriver = \"sqlite\"\n"},
		{"missing dbname", "[database]\ndriver = \"postgres\"\n"},
		{"no retries", "[database]\ndbname = \"x\"\n[booking]\nmax_admission_retries = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MemoryDriverNeedsNoDatabase(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[database]\ndriver = \"memory\"\n"))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
