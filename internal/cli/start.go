package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"codebrush/internal/workspace"
)

// runStart builds the handler for the start command.
func runStart(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		force := fs.Bool("force", false, "Overwrite an existing component file")
		flags := bindClientFlags(fs)
		id, code, ok := parseArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}

		env, err := openEnv(context.Background(), flags, false, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
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
		path, err := ws.Scaffold(q, *force)
		if errors.Is(err, workspace.ErrExists) {
			fmt.Fprintf(stderr, "%s already exists; use --force to overwrite it\n", path)
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "Failed to write starter code: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote starter code for %s to %s\n", q.ID, path)
		fmt.Fprintf(stdout, "Make these tests pass:\n")
		for _, tc := range q.TestCases {
			fmt.Fprintf(stdout, "  %-5s %s\n", tc.ID, tc.Description)
		}
		fmt.Fprintf(stdout, "Then run: codebrush run %s\n", q.ID)
		fmt.Fprintf(stdout, "Practice time is only counted while tests run; use \"codebrush watch %s\" to time the whole session.\n", q.ID)
		return ExitOK
	}
}
