package cli

import (
	"fmt"
	"io"
	"strings"

	"codebrush/internal/question"
	"codebrush/internal/reconcile"
	"codebrush/internal/ui/live"
)

// runObserver receives the progress of a test run.
type runObserver interface {
	OnSessionStart(q question.Question)
	OnRunStart()
	OnRunResult(report reconcile.Report)
	OnRunError(err error)
	OnSaved(message string)
	OnEnd()
}

// plainObserver writes run progress as plain text lines.
type plainObserver struct {
	out    io.Writer
	server string
}

func (p *plainObserver) OnSessionStart(q question.Question) {
	fmt.Fprintf(p.out, "Running tests for %s (%s) on %s\n", q.ID, q.Title, p.server)
}

func (p *plainObserver) OnRunStart() {}

func (p *plainObserver) OnRunResult(report reconcile.Report) {
	printReport(p.out, report)
}

func (p *plainObserver) OnRunError(err error) {
	fmt.Fprintf(p.out, "Test run failed: %v\n", err)
}

func (p *plainObserver) OnSaved(message string) {
	if message != "" {
		fmt.Fprintln(p.out, message)
	}
}

func (p *plainObserver) OnEnd() {}

// liveObserver drives the live UI and prints the final report once it exits.
type liveObserver struct {
	*live.Controller
	out    io.Writer
	report *reconcile.Report
	err    error
}

func (l *liveObserver) OnRunResult(report reconcile.Report) {
	l.report = &report
	l.Controller.OnRunResult(report)
}

func (l *liveObserver) OnRunError(err error) {
	l.err = err
	l.Controller.OnRunError(err)
}

func (l *liveObserver) OnEnd() {
	l.Controller.OnEnd()
	l.Controller.Wait()
	switch {
	case l.report != nil:
		printReport(l.out, *l.report)
	case l.err != nil:
		fmt.Fprintf(l.out, "Test run failed: %v\n", l.err)
	}
}

// newRunObserver selects the live or plain observer for stdout.
func newRunObserver(mode string, server string, stdout, stderr io.Writer) (runObserver, error) {
	decision, err := resolveUIMode(mode, stdout)
	if err != nil {
		return nil, err
	}
	if decision.warning != "" {
		fmt.Fprintln(stderr, decision.warning)
	}
	if decision.useLive {
		return &liveObserver{Controller: live.Start(stdout, live.Options{}), out: stdout}, nil
	}
	return &plainObserver{out: stdout, server: server}, nil
}

// printReport writes one line per test case followed by failure details.
func printReport(w io.Writer, report reconcile.Report) {
	if report.Fallback {
		state := "failed"
		if report.Success {
			state = "succeeded"
		}
		fmt.Fprintf(w, "No per-test results found; the test command %s.\n", state)
	}
	for _, entry := range report.Entries {
		glyph := "✓"
		switch {
		case !entry.Passed && !entry.Executed:
			glyph = "-"
		case !entry.Passed:
			glyph = "✕"
		}
		fmt.Fprintf(w, "%s %-5s %s\n", glyph, entry.ID, entry.Description)
		if entry.Passed || entry.Explanation == "" {
			continue
		}
		for _, line := range strings.Split(entry.Explanation, "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
		if entry.Expected != "" {
			fmt.Fprintf(w, "      expected: %s\n", entry.Expected)
		}
	}
	if len(report.Unknown) > 0 {
		fmt.Fprintf(w, "Ignored results for unknown tests: %s\n", strings.Join(report.Unknown, ", "))
	}
	fmt.Fprintln(w, report.Headline())
}
