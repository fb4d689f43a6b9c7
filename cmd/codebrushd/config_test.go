package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"codebrush/internal/logging"
	"codebrush/internal/runner"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codebrushd.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadConfigDefaults verifies an empty path yields the built-in settings.
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := runner.Config{
		Command:       "npm test",
		QuestionEnv:   "TEST_QUESTION_ID",
		Timeout:       2 * time.Minute,
		Shell:         "sh",
		MaxConcurrent: 1,
	}
	if diff := cmp.Diff(want, cfg.runnerConfig()); diff != "" {
		t.Fatalf("runner config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Server.ListenAddr != ":8000" || cfg.Tests.DefaultQuestionID != "q2" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Server.AllowedOrigin != "http://localhost:8080" {
		t.Fatalf("unexpected allowed origin %q", cfg.Server.AllowedOrigin)
	}
	if !*cfg.RunCommand.Enabled || cfg.Log.Level != "info" || cfg.shutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

// TestLoadConfigFile verifies file values override the defaults.
func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: 127.0.0.1:9000
tests:
  command: npx jest --silent
  workdir: /srv/app
  timeout: 30s
  max_output_bytes: 4096
  max_concurrent_runs: 2
run_command:
  enabled: false
log:
  level: debug
  json: true
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := runner.Config{
		Command:        "npx jest --silent",
		QuestionEnv:    "TEST_QUESTION_ID",
		Dir:            "/srv/app",
		Timeout:        30 * time.Second,
		MaxOutputBytes: 4096,
		Shell:          "sh",
		MaxConcurrent:  2,
	}
	if diff := cmp.Diff(want, cfg.runnerConfig()); diff != "" {
		t.Fatalf("runner config mismatch (-want +got):\n%s", diff)
	}
	if *cfg.RunCommand.Enabled {
		t.Fatalf("expected run_command disabled")
	}
	if cfg.Server.ListenAddr != "127.0.0.1:9000" || !cfg.Log.JSON {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

// TestLoadConfigTimeoutOff verifies the run timeout can be disabled.
func TestLoadConfigTimeoutOff(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "tests:\n  timeout: \"off\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.timeout >= 0 {
		t.Fatalf("expected disabled timeout, got %s", cfg.timeout)
	}
}

// TestLoadConfigErrors verifies invalid files are rejected.
func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown key", body: "tests:\n  comand: npm test\n", want: "comand"},
		{name: "bad timeout", body: "tests:\n  timeout: soon\n", want: "tests.timeout"},
		{name: "negative timeout", body: "tests:\n  timeout: -1s\n", want: "negative"},
		{name: "negative runs", body: "tests:\n  max_concurrent_runs: -2\n", want: "max_concurrent_runs"},
		{name: "disabled shutdown", body: "server:\n  shutdown_timeout: \"off\"\n", want: "shutdown_timeout"},
		{name: "negative rotation", body: "log:\n  max_backups: -1\n", want: "log rotation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

// TestLoadConfigReportsAllErrors verifies every invalid field is named at once.
func TestLoadConfigReportsAllErrors(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "tests:\n  timeout: soon\n  max_output_bytes: -1\n  max_concurrent_runs: -1\n"))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"tests.timeout", "max_output_bytes", "max_concurrent_runs", "3 errors occurred"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error: %v", want, err)
		}
	}
}

// TestLoggingOptions verifies the log section reaches the logger.
func TestLoggingOptions(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "log:\n  level: debug\n  file: /var/log/codebrushd.log\n  max_size_mb: 10\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := logging.Options{Name: "codebrushd", Level: "debug", File: "/var/log/codebrushd.log", MaxSizeMB: 10}
	if diff := cmp.Diff(want, cfg.loggingOptions()); diff != "" {
		t.Fatalf("logging options mismatch (-want +got):\n%s", diff)
	}
}
