package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	errs "github.com/osmike/walker/internal/error"
)

const (
	DefaultEvery     = "30s"
	DefaultPattern   = "*"
	DefaultLogFormat = "console"
)

// Config holds the settings of the walker CLI.
type Config struct {
	Dir          string `yaml:"dir"`
	Every        string `yaml:"every"`
	ShowProgress bool   `yaml:"show_progress"`
	Pattern      string `yaml:"pattern"`
	MetricsAddr  string `yaml:"metrics_addr"`
	HistoryDB    string `yaml:"history_db"`
	LogFormat    string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Dir:       ".",
		Every:     DefaultEvery,
		Pattern:   DefaultPattern,
		LogFormat: DefaultLogFormat,
	}
}

// Load reads defaults, then the YAML file at path (skipped when path is empty),
// then WALKER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errs.New(errs.ErrInvalidConfig, fmt.Sprintf("read %s: %v", path, err))
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errs.New(errs.ErrInvalidConfig, fmt.Sprintf("parse %s: %v", path, err))
		}
	}

	cfg.Dir = getEnv("WALKER_DIR", cfg.Dir)
	cfg.Every = getEnv("WALKER_EVERY", cfg.Every)
	cfg.ShowProgress = getEnvBool("WALKER_SHOW_PROGRESS", cfg.ShowProgress)
	cfg.Pattern = getEnv("WALKER_PATTERN", cfg.Pattern)
	cfg.MetricsAddr = getEnv("WALKER_METRICS_ADDR", cfg.MetricsAddr)
	cfg.HistoryDB = getEnv("WALKER_HISTORY_DB", cfg.HistoryDB)
	cfg.LogFormat = getEnv("WALKER_LOG_FORMAT", cfg.LogFormat)

	return cfg, nil
}

// Validate checks that the settings can drive a walk.
func (c Config) Validate() error {
	if c.Dir == "" {
		return errs.New(errs.ErrInvalidConfig, "dir is empty")
	}
	if _, err := ParseEvery(c.Every); err != nil {
		return err
	}
	if _, err := PatternMatch(c.Pattern, "x"); err != nil {
		return errs.New(errs.ErrInvalidConfig, fmt.Sprintf("pattern %q: %v", c.Pattern, err))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errs.New(errs.ErrInvalidConfig, fmt.Sprintf("log_format must be console or json, got %q", c.LogFormat))
	}
	return nil
}

// Interval returns the parsed Every value. Call Validate first.
func (c Config) Interval() time.Duration {
	d, _ := ParseEvery(c.Every)
	return d
}

// ParseEvery accepts a Go duration ("90s", "1m30s") or a cron interval
// descriptor ("@every 1m30s"). Calendar schedules such as "0 * * * *" or
// "@hourly" are rejected: a walk waits a fixed delay after each step.
func ParseEvery(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errs.New(errs.ErrInvalidEvery, "empty")
	}

	var d time.Duration
	if strings.HasPrefix(s, "@") {
		sched, err := cron.ParseStandard(s)
		if err != nil {
			return 0, errs.New(errs.ErrInvalidEvery, fmt.Sprintf("%q: %v", s, err))
		}
		every, ok := sched.(cron.ConstantDelaySchedule)
		if !ok {
			return 0, errs.New(errs.ErrInvalidEvery, fmt.Sprintf("%q is not a fixed interval", s))
		}
		d = every.Delay
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, errs.New(errs.ErrInvalidEvery, fmt.Sprintf("%q: %v", s, err))
		}
	}

	if d <= 0 {
		return 0, errs.New(errs.ErrInvalidEvery, fmt.Sprintf("%q must be positive", s))
	}
	return d, nil
}

// PatternMatch reports whether the base name matches the shell pattern. An
// empty pattern matches everything.
func PatternMatch(pattern, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	return filepath.Match(pattern, filepath.Base(name))
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
