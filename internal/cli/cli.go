package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is a CLI subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	// Details follow the summary in the command's own help.
	Details []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  codebrush <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"codebrush <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
	if len(cmd.Details) > 0 {
		fmt.Fprintln(w)
		for _, line := range cmd.Details {
			fmt.Fprintln(w, line)
		}
	}
}

// practiceTimeNote explains which commands count toward a question's time spent.
var practiceTimeNote = []string{
	"Practice time is only counted while run, submit or watch is executing.",
	"Time spent editing between runs is not recorded; use \"codebrush watch\" to time a whole session.",
}

func withDetails(cmd *Command, details []string) *Command {
	cmd.Details = details
	return cmd
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("list", "List practice questions", []string{
		"codebrush list [--difficulty easy|medium|hard] [--topic <topic>] [--search <text>]",
	}, runList),
	command("show", "Show a question and its test cases", []string{
		"codebrush show <question-id> [--hints]",
	}, runShow),
	withDetails(command("start", "Write a question's starter code to the workspace", []string{
		"codebrush start <question-id> [--workspace <dir>] [--force]",
	}, runStart), practiceTimeNote),
	withDetails(command("run", "Run a question's tests on the server", []string{
		"codebrush run <question-id> [--server <url>] [--ui auto|live|plain]",
	}, runRun), practiceTimeNote),
	command("watch", "Re-run a question's tests whenever its component file changes", []string{
		"codebrush watch <question-id> [--workspace <dir>] [--debounce 300ms]",
	}, runWatch),
	withDetails(command("submit", "Run tests and mark the question completed when all pass", []string{
		"codebrush submit <question-id> [--server <url>]",
	}, runSubmit), practiceTimeNote),
	command("progress", "Show or clear saved progress", []string{
		"codebrush progress",
		"codebrush progress --clear <question-id>",
		"codebrush progress --all",
	}, runProgress),
	command("open", "Open the server's question index or a question in the browser", []string{
		"codebrush open [question-id] [--server <url>]",
	}, runOpen),
	command("solution", "Show a question's reference solution", []string{
		"codebrush solution <question-id> [--write] [--workspace <dir>]",
	}, runSolution),
}
