package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"codebrush/internal/api"
	"codebrush/internal/logging"
	"codebrush/internal/runner"
)

// config describes the codebrushd YAML configuration.
type config struct {
	Server struct {
		ListenAddr      string `yaml:"listen_addr"`
		AllowedOrigin   string `yaml:"allowed_origin"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Tests struct {
		Command           string `yaml:"command"`
		QuestionEnv       string `yaml:"question_env"`
		DefaultQuestionID string `yaml:"default_question_id"`
		Workdir           string `yaml:"workdir"`
		Timeout           string `yaml:"timeout"`
		MaxOutputBytes    int64  `yaml:"max_output_bytes"`
		MaxConcurrentRuns int    `yaml:"max_concurrent_runs"`
	} `yaml:"tests"`
	RunCommand struct {
		Enabled *bool  `yaml:"enabled"`
		Shell   string `yaml:"shell"`
	} `yaml:"run_command"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Log struct {
		Level      string `yaml:"level"`
		JSON       bool   `yaml:"json"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`

	timeout         time.Duration
	shutdownTimeout time.Duration
}

// loadConfig reads the configuration file; an empty path yields the defaults.
func loadConfig(path string) (config, error) {
	var cfg config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := decodeConfig(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := applyDefaults(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeConfig rejects unknown keys so typos do not fall back to defaults silently.
func decodeConfig(data []byte, cfg *config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyDefaults fills unset fields and reports every invalid one.
func applyDefaults(cfg *config) error {
	var result *multierror.Error
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8000"
	}
	if cfg.Server.AllowedOrigin == "" {
		cfg.Server.AllowedOrigin = api.DefaultAllowedOrigin
	}
	if strings.TrimSpace(cfg.Tests.Command) == "" {
		cfg.Tests.Command = "npm test"
	}
	if cfg.Tests.QuestionEnv == "" {
		cfg.Tests.QuestionEnv = runner.DefaultQuestionEnv
	}
	if cfg.Tests.DefaultQuestionID == "" {
		cfg.Tests.DefaultQuestionID = api.DefaultQuestionID
	}
	if cfg.Tests.MaxOutputBytes < 0 {
		result = multierror.Append(result, errors.New("tests.max_output_bytes must not be negative"))
	}
	switch {
	case cfg.Tests.MaxConcurrentRuns < 0:
		result = multierror.Append(result, errors.New("tests.max_concurrent_runs must not be negative"))
	case cfg.Tests.MaxConcurrentRuns == 0:
		cfg.Tests.MaxConcurrentRuns = 1
	}
	if cfg.RunCommand.Enabled == nil {
		enabled := true
		cfg.RunCommand.Enabled = &enabled
	}
	if cfg.RunCommand.Shell == "" {
		cfg.RunCommand.Shell = runner.DefaultShell
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		result = multierror.Append(result, errors.New("log rotation limits must not be negative"))
	}

	timeout, err := parseTimeout(cfg.Tests.Timeout, runner.DefaultTimeout)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("tests.timeout: %w", err))
	}
	cfg.timeout = timeout
	shutdown, err := parseTimeout(cfg.Server.ShutdownTimeout, 5*time.Second)
	switch {
	case err != nil:
		result = multierror.Append(result, fmt.Errorf("server.shutdown_timeout: %w", err))
	case shutdown < 0:
		result = multierror.Append(result, errors.New("server.shutdown_timeout cannot be disabled"))
	}
	cfg.shutdownTimeout = shutdown
	return result.ErrorOrNil()
}

// parseTimeout reads a Go duration; "off" or "0" disables the bound.
func parseTimeout(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	switch value {
	case "":
		return fallback, nil
	case "off", "0":
		return -1, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", value)
	}
	return d, nil
}

// runnerConfig maps the tests and run_command sections onto the command runner.
func (c config) runnerConfig() runner.Config {
	return runner.Config{
		Command:        c.Tests.Command,
		QuestionEnv:    c.Tests.QuestionEnv,
		Dir:            c.Tests.Workdir,
		Timeout:        c.timeout,
		MaxOutputBytes: c.Tests.MaxOutputBytes,
		Shell:          c.RunCommand.Shell,
		MaxConcurrent:  c.Tests.MaxConcurrentRuns,
	}
}

// loggingOptions maps the log section onto the logger options.
func (c config) loggingOptions() logging.Options {
	return logging.Options{
		Name:       "codebrushd",
		Level:      c.Log.Level,
		JSON:       c.Log.JSON,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}
