package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Schedule      ScheduleConfig `toml:"schedule"`
	AI            AIConfig       `toml:"ai"`
	Notifications NotifyConfig   `toml:"notifications"`
}

type ScheduleConfig struct {
	WorkStartHour   int  `toml:"work_start_hour"`
	WorkEndHour     int  `toml:"work_end_hour"`
	IncludeWeekends bool `toml:"include_weekends"`
	BufferMinutes   int  `toml:"buffer_minutes"`
	MinTaskMinutes  int  `toml:"min_task_minutes"`
	MaxTaskMinutes  int  `toml:"max_task_minutes"`
}

type AIConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

func DefaultConfig() Config {
	return Config{
		Schedule: ScheduleConfig{
			WorkStartHour:   9,
			WorkEndHour:     17,
			IncludeWeekends: false,
			BufferMinutes:   15,
			MinTaskMinutes:  15,
			MaxTaskMinutes:  240,
		},
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "taskmate"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("TASKMATE_MODEL"); v != "" {
		cfg.AI.Model = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault creates the config file with default values if it does not
// already exist, returning its path.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	cfg := DefaultConfig()
	data := fmt.Sprintf(`[schedule]
work_start_hour = %d
work_end_hour = %d
include_weekends = %t
buffer_minutes = %d
min_task_minutes = %d
max_task_minutes = %d

[ai]
api_key = "%s"
model = "%s"
temperature = %.1f

[notifications]
enabled = %t
`,
		cfg.Schedule.WorkStartHour,
		cfg.Schedule.WorkEndHour,
		cfg.Schedule.IncludeWeekends,
		cfg.Schedule.BufferMinutes,
		cfg.Schedule.MinTaskMinutes,
		cfg.Schedule.MaxTaskMinutes,
		cfg.AI.APIKey,
		cfg.AI.Model,
		cfg.AI.Temperature,
		cfg.Notifications.Enabled,
	)

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
