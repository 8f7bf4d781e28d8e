package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: PantryMatch\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Matching.DefaultLimit)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MatchTTL)
	assert.Equal(t, "mock", cfg.AI.Provider)
	assert.Equal(t, "https://trackapi.nutritionix.com/v2", cfg.Nutritionix.BaseURL)
	assert.Equal(t, "YOUR_APP_ID", cfg.Nutritionix.AppID)
	assert.Equal(t, 9090, cfg.Server.AdminPort)
	assert.False(t, cfg.Redis.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
app:
  timezone: America/New_York
database:
  driver: postgres
  replicas: ["host=replica1", "host=replica2"]
matching:
  default_limit: 25
`)
	t.Setenv("PANTRYMATCH_SERVER_PORT", "9000")
	t.Setenv("PANTRYMATCH_NUTRITIONIX_APP_KEY", "secret")
	t.Setenv("PANTRYMATCH_DATABASE_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"host=replica1", "host=replica2"}, cfg.Database.Replicas)
	assert.Equal(t, 25, cfg.Matching.DefaultLimit)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Nutritionix.AppKey)
	assert.Contains(t, cfg.GetDSN(), "password=hunter2")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"driver":   "database:\n  driver: mongo\n",
		"store":    "pantry:\n  store: s3\n",
		"provider": "ai:\n  provider: claude\n",
		"port":     "server:\n  port: 70000\n",
		"limit":    "matching:\n  default_limit: -1\n",
		"timezone": "app:\n  timezone: Mars/Olympus\n",
		"sampling": "monitoring:\n  sampling_rate: 2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "app: [unterminated"))
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "app:\n  log_level: info\n")
	cfg, v, err := LoadWithViper(path)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.App.LogLevel)

	changed := make(chan *Config, 4)
	Watch(v, func(c *Config) { changed <- c }, nil)

	require.NoError(t, os.WriteFile(path, []byte("app:\n  log_level: debug\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.App.LogLevel == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("configuration change was not observed")
		}
	}
}
