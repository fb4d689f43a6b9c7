//go:build unix

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"codebrush/internal/api"
	"codebrush/internal/question"
	"codebrush/internal/runner"
	"codebrush/internal/testutil"
)

// TestServeShutdownKillsRunningTests verifies stopping the server kills an in-flight test command.
func TestServeShutdownKillsRunningTests(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	pidFile := filepath.Join(t.TempDir(), "pid")
	commands, err := runner.New(runner.Config{
		Command: "sh -c 'echo $$ > " + pidFile + "; exec sleep 30'",
		Timeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	catalog, err := question.DefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	handler := api.NewHandler(api.Config{Runner: commands, Catalog: catalog})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(testutil.Context(t, 20*time.Second))
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, newServer(ctx, handler), ln, 10*time.Second, hclog.NewNullLogger())
	}()
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/run-tests", "application/json", strings.NewReader(`{"questionId":"q1"}`))
		if err == nil {
			resp.Body.Close()
		}
	}()

	var pid int
	testutil.Eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		data, err := os.ReadFile(pidFile)
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
		return err == nil && pid > 0
	}, "test command did not start")

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(8 * time.Second):
		t.Fatalf("server did not stop")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("shutdown waited for the test command: %s", elapsed)
	}
	if err := syscall.Kill(pid, 0); !errors.Is(err, syscall.ESRCH) {
		t.Fatalf("test command %d still running after shutdown (kill: %v)", pid, err)
	}
}

// TestServeReportsListenerFailure verifies serve returns errors other than a clean close.
func TestServeReportsListenerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ln.Close()
	ctx := testutil.Context(t, 5*time.Second)
	if err := serve(ctx, newServer(ctx, http.NotFoundHandler()), ln, time.Second, hclog.NewNullLogger()); err == nil {
		t.Fatalf("expected error from closed listener")
	}
}
