package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestDispatchUsage covers the top-level argument handling.
func TestDispatchUsage(t *testing.T) {
	cases := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no args", args: nil, wantCode: ExitUsage, wantStdout: "codebrush <command>"},
		{name: "help flag", args: []string{"--help"}, wantCode: ExitOK, wantStdout: "Commands:"},
		{name: "help word", args: []string{"help"}, wantCode: ExitOK, wantStdout: "codebrush <command> --help"},
		{name: "unknown", args: []string{"practice"}, wantCode: ExitUsage, wantStderr: "Unknown command: practice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(tc.args, &stdout, &stderr)
			if code != tc.wantCode {
				t.Fatalf("expected exit %d, got %d", tc.wantCode, code)
			}
			if tc.wantStdout != "" && !strings.Contains(stdout.String(), tc.wantStdout) {
				t.Fatalf("stdout missing %q:\n%s", tc.wantStdout, stdout.String())
			}
			if tc.wantStderr == "" && stderr.Len() != 0 {
				t.Fatalf("unexpected stderr %q", stderr.String())
			}
			if tc.wantStderr != "" {
				if stdout.Len() != 0 {
					t.Fatalf("unexpected stdout %q", stdout.String())
				}
				if !strings.Contains(stderr.String(), tc.wantStderr) || !strings.Contains(stderr.String(), "Usage:") {
					t.Fatalf("stderr missing error and usage:\n%s", stderr.String())
				}
			}
		})
	}
}

// TestRootHelpListsCommands verifies every command appears with its summary.
func TestRootHelpListsCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer
	Run([]string{"-h"}, &stdout, &stderr)
	for _, cmd := range commands {
		if !strings.Contains(stdout.String(), cmd.Name) || !strings.Contains(stdout.String(), cmd.Summary) {
			t.Fatalf("help is missing %s (%s):\n%s", cmd.Name, cmd.Summary, stdout.String())
		}
	}
}

// TestSubcommandHelp verifies each command prints its own usage lines.
func TestSubcommandHelp(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.Name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := Run([]string{cmd.Name, "--help"}, &stdout, &stderr); code != ExitOK {
				t.Fatalf("expected exit %d, got %d (stderr %q)", ExitOK, code, stderr.String())
			}
			for _, line := range cmd.Usage {
				if !strings.Contains(stdout.String(), line) {
					t.Fatalf("missing usage line %q in:\n%s", line, stdout.String())
				}
			}
		})
	}
}

// TestPracticeTimeNote verifies the timed commands explain when practice time accrues.
func TestPracticeTimeNote(t *testing.T) {
	for _, name := range []string{"start", "run", "submit"} {
		var stdout, stderr bytes.Buffer
		Run([]string{name, "-h"}, &stdout, &stderr)
		if !strings.Contains(stdout.String(), "Practice time is only counted while run, submit or watch is executing.") {
			t.Fatalf("%s help is missing the practice time note:\n%s", name, stdout.String())
		}
	}
	var stdout, stderr bytes.Buffer
	Run([]string{"list", "-h"}, &stdout, &stderr)
	if strings.Contains(stdout.String(), "Practice time") {
		t.Fatalf("list help should not carry the practice time note:\n%s", stdout.String())
	}
}
