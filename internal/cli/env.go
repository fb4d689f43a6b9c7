package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-homedir"

	"codebrush/internal/logging"
	"codebrush/internal/progress"
	"codebrush/internal/question"
	"codebrush/internal/session"
	"codebrush/internal/workspace"
	"codebrush/pkg/testrun/httpclient"
)

const (
	// DefaultServerURL is the codebrushd address used when --server is unset.
	DefaultServerURL = "http://localhost:8000"
	// DefaultDBPath is the progress database used when --db is unset.
	DefaultDBPath = "~/.codebrush/progress.duckdb"
	// runRequestTimeout bounds one /run-tests round trip, above the server's own run timeout.
	runRequestTimeout = 3 * time.Minute
)

// openStore is a test seam for opening the progress store.
var openStore = func(ctx context.Context, path string) (progress.Store, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand db path: %w", err)
	}
	db, err := progress.Open(ctx, expanded)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// newTestRunner is a test seam for building the server client.
var newTestRunner = func(serverURL string) session.TestRunner {
	return httpclient.NewWithTimeout(serverURL, runRequestTimeout)
}

// clientFlags are the options shared by commands that touch local state.
type clientFlags struct {
	server    string
	db        string
	workspace string
	catalog   string
	logLevel  string
}

// bindClientFlags registers the shared flags on fs.
func bindClientFlags(fs *flag.FlagSet) *clientFlags {
	f := &clientFlags{}
	fs.StringVar(&f.server, "server", envOr("CODEBRUSH_SERVER", DefaultServerURL), "codebrushd base URL")
	fs.StringVar(&f.db, "db", envOr("CODEBRUSH_DB", DefaultDBPath), "Progress database path (:memory: for none)")
	fs.StringVar(&f.workspace, "workspace", envOr("CODEBRUSH_WORKSPACE", "."), "React project root")
	fs.StringVar(&f.catalog, "catalog", "", "Question catalog file (default: built-in questions)")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level (trace|debug|info|warn|error)")
	return f
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// clientEnv holds the resources a command works with.
type clientEnv struct {
	catalog *question.Catalog
	store   progress.Store
	logger  hclog.Logger
	flags   *clientFlags
}

// openEnv loads the catalog and, when withStore is set, opens the progress store.
func openEnv(ctx context.Context, flags *clientFlags, withStore bool, stderr io.Writer) (*clientEnv, error) {
	logger, err := logging.New(logging.Options{Name: "codebrush", Level: flags.logLevel, Output: stderr})
	if err != nil {
		return nil, err
	}
	catalog, err := question.LoadCatalog(flags.catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	env := &clientEnv{catalog: catalog, logger: logger, flags: flags}
	if withStore {
		store, err := openStore(ctx, flags.db)
		if err != nil {
			return nil, fmt.Errorf("open progress store: %w", err)
		}
		env.store = store
		logger.Debug("progress store opened", "path", flags.db)
	}
	return env, nil
}

// Close releases the progress store.
func (e *clientEnv) Close() {
	if e == nil || e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close progress store", "error", err)
	}
}

// question resolves id against the catalog.
func (e *clientEnv) question(id string) (question.Question, error) {
	q, ok := e.catalog.Get(id)
	if !ok {
		return question.Question{}, fmt.Errorf("unknown question %q", id)
	}
	return q, nil
}

// workspace opens the configured workspace root.
func (e *clientEnv) workspace() (*workspace.Workspace, error) {
	return workspace.New(e.flags.workspace)
}

// newSession starts a practice session for q against the configured server.
func (e *clientEnv) newSession(ctx context.Context, q question.Question) (*session.Session, error) {
	return session.New(ctx, session.Config{
		Question: q,
		Catalog:  e.catalog,
		Store:    e.store,
		Runner:   newTestRunner(e.flags.server),
		Logger:   e.logger,
	})
}

// parseArgs parses args into fs and returns the single positional question ID.
func parseArgs(cmd *Command, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) (string, int, bool) {
	if err := fs.Parse(reorderArgs(fs, args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(cmd, stdout)
			return "", ExitOK, false
		}
		printCommandUsage(cmd, stderr)
		return "", ExitUsage, false
	}
	switch fs.NArg() {
	case 1:
		return strings.TrimSpace(fs.Arg(0)), ExitOK, true
	case 0:
		fmt.Fprintln(stderr, "Missing <question-id>")
	default:
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
	}
	printCommandUsage(cmd, stderr)
	return "", ExitUsage, false
}

// reorderArgs moves flags ahead of positionals so "run q1 --ui plain" parses.
func reorderArgs(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			flags = append(flags, args[i+1])
			i++
		}
	}
	return append(flags, positional...)
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
