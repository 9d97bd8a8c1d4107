package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("HEADLESS", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Timeouts, cfg.Timeouts)
	assert.Equal(t, "config/app-config.properties", cfg.CredentialsPath)
	assert.True(t, cfg.Headless)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
credentials_path: secrets/creds.properties
output_dir: out
headless: false
rows_per_minute: 12
timeouts:
  wait: 5s
  settle_min: 500ms
  settle_max: 250ms
`)
	t.Setenv("DATABASE_URL", "postgres://localhost/applicants")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secrets/creds.properties", cfg.CredentialsPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 12.0, cfg.RowsPerMinute)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Wait)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.SettleMin)
	//max below min is raised to min
	assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.SettleMax)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeouts.PollInterval)
	assert.Equal(t, "postgres://localhost/applicants", cfg.DatabaseURL)
	assert.Equal(t, int64(42), cfg.TelegramChatID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want string
	}{
		{name: "malformed yaml", yaml: "timeouts: [", want: "error parsing"},
		{name: "bad chat id", yaml: "", env: map[string]string{"TELEGRAM_CHAT_ID": "abc"}, want: "TELEGRAM_CHAT_ID"},
		{name: "token without chat", yaml: "telegram_token: x", want: "TELEGRAM_CHAT_ID is required"},
		{name: "negative pacing", yaml: "rows_per_minute: -1", want: "rows_per_minute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("TELEGRAM_CHAT_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, "config.yaml", tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	path := writeFile(t, "app-config.properties", `
# recruiter account
username=recruiter@example.com
password=hunter2
url=https://www.linkedin.com/hiring/jobs/123/detail/
`)
	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "recruiter@example.com", creds.Identity)
	assert.Equal(t, "hunter2", creds.Secret)
	assert.Equal(t, "https://www.linkedin.com/hiring/jobs/123/detail/", creds.TargetURL)

	other := creds.WithTargetURL("https://www.linkedin.com/hiring/jobs/456/detail/")
	assert.Equal(t, "https://www.linkedin.com/hiring/jobs/456/detail/", other.TargetURL)
	assert.Equal(t, creds.TargetURL, creds.WithTargetURL("").TargetURL)
}

func TestLoadCredentials_SecretIsVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "dollar signs", password: "pa$HOMEss$1"},
		{name: "braced reference", password: "x${USER}y"},
		{name: "inline hash", password: "open sesame #1"},
		{name: "leading hash", password: "#start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", "/root")
			t.Setenv("USER", "root")
			path := writeFile(t, "app-config.properties",
				"username=recruiter@example.com\npassword="+tt.password+"\nurl=https://www.linkedin.com/hiring/jobs/1/\n")

			creds, err := LoadCredentials(path)
			require.NoError(t, err)
			assert.Equal(t, tt.password, creds.Secret)
		})
	}
}

func TestLoadCredentials_FailFast(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "missing password", content: "username=a\nurl=https://x.test/job\n", want: []string{`missing key "password"`}},
		{name: "missing everything", content: "# empty\n", want: []string{`"username"`, `"password"`, `"url"`}},
		{name: "bad url", content: "username=a\npassword=b\nurl=not a url\n", want: []string{`key "url" is not a valid url`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(writeFile(t, "creds.properties", tt.content))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}

	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.properties"))
	assert.ErrorContains(t, err, "could not read credentials file")
}
