package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseDSN        string         `yaml:"database_path"`
	LogFile            string         `yaml:"log_file"`
	LogLevel           string         `yaml:"log_level"`
	CascadeTimeEntries bool           `yaml:"cascade_time_entries"`
	Pomodoro           PomodoroConfig `yaml:"pomodoro"`
}

type PomodoroConfig struct {
	WorkMinutes       int `yaml:"work_minutes"`
	ShortBreakMinutes int `yaml:"short_break_minutes"`
	LongBreakMinutes  int `yaml:"long_break_minutes"`
	CycleLength       int `yaml:"cycle_length"`
}

func Default(home string) Config {
	dataDir := filepath.Join(home, ".corhyn")
	return Config{
		DatabaseDSN: filepath.Join(dataDir, "tasks.db"),
		LogFile:     filepath.Join(dataDir, "corhyn.log"),
		LogLevel:    "info",
		Pomodoro: PomodoroConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			CycleLength:       4,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file,
// then environment variables.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := Default(home)

	path := getEnv("CORHYN_CONFIG", filepath.Join(home, ".corhyn", "config.yaml"))
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}

	cfg.DatabaseDSN = getEnv("CORHYN_DB_PATH", cfg.DatabaseDSN)
	cfg.LogFile = getEnv("CORHYN_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("CORHYN_LOG_LEVEL", cfg.LogLevel)

	if cfg.CascadeTimeEntries, err = getEnvAsBool("CORHYN_CASCADE_TIME_ENTRIES", cfg.CascadeTimeEntries); err != nil {
		return Config{}, err
	}
	if cfg.Pomodoro.WorkMinutes, err = getEnvAsInt("CORHYN_POMODORO_WORK_MINUTES", cfg.Pomodoro.WorkMinutes); err != nil {
		return Config{}, err
	}
	if cfg.Pomodoro.ShortBreakMinutes, err = getEnvAsInt("CORHYN_POMODORO_SHORT_BREAK_MINUTES", cfg.Pomodoro.ShortBreakMinutes); err != nil {
		return Config{}, err
	}
	if cfg.Pomodoro.LongBreakMinutes, err = getEnvAsInt("CORHYN_POMODORO_LONG_BREAK_MINUTES", cfg.Pomodoro.LongBreakMinutes); err != nil {
		return Config{}, err
	}
	if cfg.Pomodoro.CycleLength, err = getEnvAsInt("CORHYN_POMODORO_CYCLE_LENGTH", cfg.Pomodoro.CycleLength); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.DatabaseDSN == "" {
		return errors.New("CORHYN_DB_PATH must not be empty")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return fmt.Errorf("CORHYN_LOG_LEVEL: unknown level %q", cfg.LogLevel)
	}
	if cfg.Pomodoro.WorkMinutes <= 0 {
		return errors.New("CORHYN_POMODORO_WORK_MINUTES must be greater than 0")
	}
	if cfg.Pomodoro.ShortBreakMinutes <= 0 {
		return errors.New("CORHYN_POMODORO_SHORT_BREAK_MINUTES must be greater than 0")
	}
	if cfg.Pomodoro.LongBreakMinutes <= 0 {
		return errors.New("CORHYN_POMODORO_LONG_BREAK_MINUTES must be greater than 0")
	}
	if cfg.Pomodoro.CycleLength <= 0 {
		return errors.New("CORHYN_POMODORO_CYCLE_LENGTH must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s", key)
		}
		return b, nil
	}
	return defaultVal, nil
}
