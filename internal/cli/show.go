package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"codebrush/internal/session"
)

// wrapWidth is the column limit for question text.
const wrapWidth = 76

// runShow builds the handler for the show command.
func runShow(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		hints := fs.Bool("hints", false, "Include hints")
		flags := bindClientFlags(fs)
		id, code, ok := parseArgs(cmd, fs, args, stdout, stderr)
		if !ok {
			return code
		}

		ctx := context.Background()
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
		saved, err := env.store.Get(ctx, q.ID)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load progress: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "%s: %s\n", q.ID, q.Title)
		topics := make([]string, 0, len(q.Topics))
		for _, topic := range q.Topics {
			topics = append(topics, string(topic))
		}
		fmt.Fprintf(stdout, "Difficulty: %s | Time: ~%d min | Topics: %s\n\n", q.Difficulty, q.AverageTimeMin, strings.Join(topics, ", "))
		fmt.Fprintln(stdout, wrapText(q.Description, wrapWidth))
		fmt.Fprintln(stdout)

		passed := map[string]bool{}
		if saved != nil {
			for _, id := range saved.PassedTestCases {
				passed[id] = true
			}
		}
		fmt.Fprintln(stdout, "Test cases:")
		for _, tc := range q.TestCases {
			mark := " "
			if passed[tc.ID] {
				mark = "✓"
			}
			fmt.Fprintf(stdout, "  %s %-5s %s\n", mark, tc.ID, tc.Description)
		}
		if saved != nil {
			state := "in progress"
			if saved.Completed {
				state = "completed"
			}
			fmt.Fprintf(stdout, "\nProgress: %s, %d/%d passing, %s spent\n",
				state, len(saved.PassedTestCases), len(q.TestCases), session.FormatClock(saved.TimeSpent))
		}
		if *hints {
			fmt.Fprintln(stdout, "\nHints:")
			for i, hint := range q.Hints {
				fmt.Fprintf(stdout, "  %d. %s\n", i+1, indentWrapped(hint.Text, wrapWidth-5, "     "))
			}
		}
		return ExitOK
	}
}

// wrapText wraps each paragraph of text to width columns.
func wrapText(text string, width uint) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = wordwrap.WrapString(line, width)
	}
	return strings.Join(lines, "\n")
}

// indentWrapped wraps text and indents continuation lines.
func indentWrapped(text string, width uint, indent string) string {
	return strings.ReplaceAll(wordwrap.WrapString(text, width), "\n", "\n"+indent)
}
