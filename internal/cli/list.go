package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"codebrush/internal/progress"
	"codebrush/internal/question"
)

// runList builds the handler for the list command.
func runList(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		difficulty := fs.String("difficulty", "", "Only questions of this difficulty")
		topic := fs.String("topic", "", "Only questions covering this topic")
		search := fs.String("search", "", "Case-insensitive text to match")
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
		level := question.Difficulty(strings.ToLower(strings.TrimSpace(*difficulty)))
		switch level {
		case "", question.DifficultyEasy, question.DifficultyMedium, question.DifficultyHard:
		default:
			fmt.Fprintf(stderr, "invalid difficulty %q (expected easy|medium|hard)\n", *difficulty)
			return ExitUsage
		}

		ctx := context.Background()
		env, err := openEnv(ctx, flags, true, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer env.Close()

		questions := env.catalog.Filter(question.Filters{
			Difficulty: level,
			Topic:      question.Topic(strings.TrimSpace(*topic)),
			Search:     *search,
		})
		if len(questions) == 0 {
			fmt.Fprintln(stdout, "No questions match the filters.")
			return ExitOK
		}
		saved, err := progressByQuestion(ctx, env.store)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load progress: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "%-4s %-7s %-5s %-12s %s\n", "ID", "LEVEL", "TIME", "STATUS", "TITLE")
		for _, q := range questions {
			fmt.Fprintf(stdout, "%-4s %-7s %-5s %-12s %s\n",
				q.ID, q.Difficulty, fmt.Sprintf("%dm", q.AverageTimeMin), statusLabel(q, saved[q.ID]), q.Title)
		}
		return ExitOK
	}
}

// progressByQuestion indexes saved progress by question ID.
func progressByQuestion(ctx context.Context, store progress.Store) (map[string]progress.Progress, error) {
	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]progress.Progress, len(records))
	for _, record := range records {
		out[record.QuestionID] = record
	}
	return out, nil
}

// statusLabel summarizes saved progress for a question.
func statusLabel(q question.Question, p progress.Progress) string {
	switch {
	case p.QuestionID == "":
		return "new"
	case p.Completed:
		return "completed"
	default:
		return fmt.Sprintf("%d/%d passing", len(p.PassedTestCases), len(q.TestCases))
	}
}
