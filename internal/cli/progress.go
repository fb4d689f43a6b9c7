package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"codebrush/internal/session"
)

// runProgress builds the handler for the progress command.
func runProgress(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		clearID := fs.String("clear", "", "Delete saved progress for one question")
		all := fs.Bool("all", false, "Delete all saved progress")
		attempts := fs.Bool("attempts", false, "Include the run history of each question")
		flags := bindClientFlags(fs)
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitOK
			}
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
			return ExitUsage
		}
		if *all && *clearID != "" {
			fmt.Fprintln(stderr, "--clear and --all cannot be combined")
			return ExitUsage
		}

		ctx := context.Background()
		env, err := openEnv(ctx, flags, true, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer env.Close()

		switch {
		case *all:
			if err := env.store.ClearAll(ctx); err != nil {
				fmt.Fprintf(stderr, "Failed to clear progress: %v\n", err)
				return ExitError
			}
			fmt.Fprintln(stdout, "Cleared all progress.")
			return ExitOK
		case *clearID != "":
			id := strings.TrimSpace(*clearID)
			if _, err := env.question(id); err != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				return ExitError
			}
			if err := env.store.Clear(ctx, id); err != nil {
				fmt.Fprintf(stderr, "Failed to clear progress: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Cleared progress for %s.\n", id)
			return ExitOK
		}

		records, err := env.store.List(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load progress: %v\n", err)
			return ExitError
		}
		if len(records) == 0 {
			fmt.Fprintln(stdout, "No progress saved yet.")
			return ExitOK
		}
		completed := 0
		fmt.Fprintf(stdout, "%-4s %-12s %-8s %-7s %s\n", "ID", "STATUS", "PASSING", "TIME", "LAST ATTEMPT")
		for _, record := range records {
			total := "?"
			if q, ok := env.catalog.Get(record.QuestionID); ok {
				total = fmt.Sprint(len(q.TestCases))
			}
			status := "in progress"
			if record.Completed {
				status = "completed"
				completed++
			}
			fmt.Fprintf(stdout, "%-4s %-12s %-8s %-7s %s\n",
				record.QuestionID, status,
				fmt.Sprintf("%d/%s", len(record.PassedTestCases), total),
				session.FormatClock(record.TimeSpent), formatAttemptTime(record.LastAttempt))
			if !*attempts {
				continue
			}
			history, err := env.store.Attempts(ctx, record.QuestionID)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load attempts: %v\n", err)
				return ExitError
			}
			for _, attempt := range history {
				result := "ok"
				if !attempt.Success {
					result = "failed"
				}
				if attempt.ErrorKind != "" {
					result = attempt.ErrorKind
				}
				fmt.Fprintf(stdout, "     %s  %d/%d passing  %s  %s\n",
					formatAttemptTime(attempt.At), attempt.Passed, attempt.Total, result, formatSpent(attempt.Duration))
			}
		}
		fmt.Fprintf(stdout, "%d of %d questions completed.\n", completed, env.catalog.Len())
		return ExitOK
	}
}

func formatAttemptTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatSpent(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
