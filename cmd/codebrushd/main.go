package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"codebrush/internal/api"
	"codebrush/internal/logging"
	"codebrush/internal/question"
	"codebrush/internal/runner"
	"codebrush/internal/testoutput"
)

// main launches codebrushd.
func main() {
	os.Exit(run())
}

// run executes codebrushd and returns an exit code.
func run() int {
	configPath := flag.String("config", "", "path to codebrushd config (default: built-in settings)")
	listenAddr := flag.String("listen", "", "override server.listen_addr")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	logger, err := logging.New(cfg.loggingOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}

	catalog, err := question.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		logger.Error("catalog load failed", "path", cfg.Catalog.Path, "error", err)
		return 1
	}

	runnerCfg := cfg.runnerConfig()
	runnerCfg.Logger = logger.Named("runner")
	commands, err := runner.New(runnerCfg)
	if err != nil {
		logger.Error("test command invalid", "command", cfg.Tests.Command, "error", err)
		return 1
	}

	handler := api.NewHandler(api.Config{
		Runner:            commands,
		Catalog:           catalog,
		Grammar:           testoutput.DefaultGrammar(),
		DefaultQuestionID: cfg.Tests.DefaultQuestionID,
		AllowedOrigin:     cfg.Server.AllowedOrigin,
		RunCommandEnabled: *cfg.RunCommand.Enabled,
		Logger:            logger.Named("api"),
		Now:               time.Now,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Server.ListenAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Server.ListenAddr, "error", err)
		return 1
	}
	logger.Info("listening",
		"addr", ln.Addr().String(),
		"test_command", cfg.Tests.Command,
		"questions", catalog.Len(),
		"run_command", *cfg.RunCommand.Enabled,
		"max_concurrent_runs", cfg.Tests.MaxConcurrentRuns)

	if err := serve(ctx, newServer(ctx, handler), ln, cfg.shutdownTimeout, logger); err != nil {
		logger.Error("server error", "error", err)
		return 1
	}
	return 0
}

// newServer builds the HTTP server. Request contexts derive from ctx, so
// cancelling ctx kills in-flight test commands along with their process groups.
func newServer(ctx context.Context, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

// serve runs server on ln until ctx is done or serving fails, then shuts it
// down. Connections still open after shutdownTimeout are closed.
func serve(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger hclog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
		_ = server.Close()
	}
	return serveErr
}
