package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"codebrush/internal/reconcile"
	"codebrush/internal/session"
)

// runRun builds the handler for the run command.
func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		uiMode := fs.String("ui", "auto", "Output mode (auto|live|plain)")
		flags := bindClientFlags(fs)
		id, code, ok := parseArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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
		s, err := env.newSession(ctx, q)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start session: %v\n", err)
			return ExitError
		}
		observer, err := newRunObserver(*uiMode, flags.server, stdout, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}

		report, err := runSession(ctx, s, observer)
		if err != nil {
			return ExitError
		}
		if !report.AllPassed() {
			return ExitError
		}
		fmt.Fprintf(stdout, "Submit with: codebrush submit %s\n", q.ID)
		return ExitOK
	}
}

// runSession runs the session's tests and reports each step to observer.
func runSession(ctx context.Context, s *session.Session, observer runObserver) (reconcile.Report, error) {
	defer observer.OnEnd()
	observer.OnSessionStart(s.Question())
	observer.OnRunStart()
	report, err := s.Run(ctx)
	if err != nil && s.State() == session.StateError {
		observer.OnRunError(err)
		return reconcile.Report{}, err
	}
	observer.OnRunResult(report)
	if err != nil {
		observer.OnSaved("Failed to save progress: " + err.Error())
		return report, err
	}
	return report, nil
}
