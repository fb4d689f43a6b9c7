package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

// runSolution builds the handler for the solution command.
func runSolution(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		write := fs.Bool("write", false, "Replace the component file with the solution")
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
		if strings.TrimSpace(q.Solution) == "" {
			fmt.Fprintf(stderr, "No solution available for %s\n", q.ID)
			return ExitError
		}
		if !*write {
			fmt.Fprint(stdout, q.Solution)
			if !strings.HasSuffix(q.Solution, "\n") {
				fmt.Fprintln(stdout)
			}
			return ExitOK
		}
		ws, err := env.workspace()
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		path, err := ws.WriteSolution(q)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to write solution: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote solution for %s to %s\n", q.ID, path)
		return ExitOK
	}
}
