// Load envs from .env
// Load YAML config
// Apply env overrides and defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Timeouts struct {
	//bounded wait for a DOM predicate or URL change
	Wait         time.Duration `yaml:"wait"`
	PollInterval time.Duration `yaml:"poll_interval"`
	//jittered settle after scrolling/clicking a row
	SettleMin time.Duration `yaml:"settle_min"`
	SettleMax time.Duration `yaml:"settle_max"`
	//settle after a full navigation (reload, next page)
	PageSettle time.Duration `yaml:"page_settle"`
}

type Config struct {
	CredentialsPath string `yaml:"credentials_path"`
	JobURL          string `yaml:"job_url"`
	OutputDir       string `yaml:"output_dir"`
	Headless        bool   `yaml:"headless"`
	InstallDriver   bool   `yaml:"install_driver"`
	UserAgent       string `yaml:"user_agent"`
	//Paths
	CookiesPath    string `yaml:"cookies_path"`
	ScreenshotsDir string `yaml:"screenshots_dir"`

	Timeouts Timeouts `yaml:"timeouts"`
	//0 means unpaced
	RowsPerMinute float64 `yaml:"rows_per_minute"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	DatabaseURL    string `yaml:"database_url"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		CredentialsPath: "config/app-config.properties",
		OutputDir:       ".",
		Headless:        true,
		CookiesPath:     ".cookies/cookies-linkedin.json",
		ScreenshotsDir:  "logs/screenshots",
		Timeouts: Timeouts{
			Wait:         10 * time.Second,
			PollInterval: 250 * time.Millisecond,
			SettleMin:    time.Second,
			SettleMax:    2 * time.Second,
			PageSettle:   2 * time.Second,
		},
	}
}

// Load reads path on top of Default and applies environment overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if headless := os.Getenv("HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Headless = v
	}
	return nil
}

//Set default values for zeroed fields
func (c *Config) fillDefaults() {
	def := Default()
	if c.CredentialsPath == "" {
		c.CredentialsPath = def.CredentialsPath
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.ScreenshotsDir == "" {
		c.ScreenshotsDir = def.ScreenshotsDir
	}
	if c.Timeouts.Wait <= 0 {
		c.Timeouts.Wait = def.Timeouts.Wait
	}
	if c.Timeouts.PollInterval <= 0 {
		c.Timeouts.PollInterval = def.Timeouts.PollInterval
	}
	if c.Timeouts.SettleMin <= 0 {
		c.Timeouts.SettleMin = def.Timeouts.SettleMin
	}
	if c.Timeouts.SettleMax < c.Timeouts.SettleMin {
		c.Timeouts.SettleMax = c.Timeouts.SettleMin
	}
	if c.Timeouts.PageSettle <= 0 {
		c.Timeouts.PageSettle = def.Timeouts.PageSettle
	}
}

func (c *Config) Validate() error {
	if c.RowsPerMinute < 0 {
		return fmt.Errorf("config error: 'rows_per_minute' must be non-negative")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("config error: TELEGRAM_CHAT_ID is required when a telegram token is set")
	}
	return nil
}
