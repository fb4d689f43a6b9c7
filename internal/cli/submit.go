package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
)

// runSubmit builds the handler for the submit command.
func runSubmit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
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
		observer := &plainObserver{out: stdout, server: flags.server}
		if _, err := runSession(ctx, s, observer); err != nil {
			return ExitError
		}
		record, err := s.Submit(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to save progress: %v\n", err)
			return ExitError
		}
		if !record.Completed {
			fmt.Fprintf(stdout, "%s is not completed yet: %d/%d tests passing.\n", q.ID, len(record.PassedTestCases), len(q.TestCases))
			return ExitError
		}
		fmt.Fprintf(stdout, "%s completed in %s.\n", q.ID, formatSpent(record.TimeSpent))
		if next, ok := s.Next(); ok {
			fmt.Fprintf(stdout, "Next up: %s %s (codebrush start %s)\n", next.ID, next.Title, next.ID)
		} else {
			fmt.Fprintln(stdout, "That was the last question.")
		}
		return ExitOK
	}
}
