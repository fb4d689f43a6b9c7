package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"codebrush/internal/workspace"
)

// notifyContext is a test seam for the watch command's lifetime.
var notifyContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runWatch builds the handler for the watch command.
func runWatch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		debounce := fs.Duration("debounce", workspace.DefaultDebounce, "Quiet period after a save before tests run")
		flags := bindClientFlags(fs)
		id, code, ok := parseArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}

		ctx, stop := notifyContext()
		defer stop()
		env, err := openEnv(ctx, flags, true, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer env.Close()
		q, err := env.question(id)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		ws, err := env.workspace()
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		path, err := ws.Path(q.ID)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		s, err := env.newSession(ctx, q)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start session: %v\n", err)
			return ExitError
		}
		defer func() {
			// Keep the practice time when the watch is interrupted.
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Home(saveCtx); err != nil {
				fmt.Fprintf(stderr, "Failed to save progress: %v\n", err)
			}
		}()

		observer := &plainObserver{out: stdout, server: flags.server}
		rerun := func() {
			if _, err := runSession(ctx, s, observer); err == nil && s.AllPassed() {
				fmt.Fprintf(stdout, "All tests pass. Submit with: codebrush submit %s\n", q.ID)
			}
		}
		rerun()
		fmt.Fprintf(stdout, "Watching %s (Ctrl+C to stop)\n", path)
		if err := ws.Watch(ctx, q.ID, *debounce, func() {
			fmt.Fprintf(stdout, "\n%s changed\n", path)
			rerun()
		}); err != nil {
			fmt.Fprintf(stderr, "Watch failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
