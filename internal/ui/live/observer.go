package live

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codebrush/internal/question"
	"codebrush/internal/reconcile"
)

// Controller runs the live UI and receives session notifications.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 64)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnSessionStart shows the question and its pending test cases.
func (c *Controller) OnSessionStart(q question.Question) {
	cases := make([]Case, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		cases = append(cases, Case{ID: tc.ID, Description: tc.Description})
	}
	c.send(Event{Kind: EventSessionStart, QuestionID: q.ID, Title: q.Title, Cases: cases})
}

// OnRunStart marks every case as running.
func (c *Controller) OnRunStart() {
	c.send(Event{Kind: EventRunStart})
}

// OnRunResult shows a reconciled run.
func (c *Controller) OnRunResult(report reconcile.Report) {
	c.send(Event{Kind: EventRunResult, Report: report})
}

// OnRunError shows a run that returned no results.
func (c *Controller) OnRunError(err error) {
	c.send(Event{Kind: EventRunError, Err: err})
}

// OnSaved notes a progress write.
func (c *Controller) OnSaved(message string) {
	c.send(Event{Kind: EventSaved, Message: message})
}

// OnEnd stops the UI after the final event.
func (c *Controller) OnEnd() {
	c.send(Event{Kind: EventEnd})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	if event.At.IsZero() {
		event.At = c.now()
	}
	defer func() {
		// Sends after Close are dropped.
		_ = recover()
	}()
	select {
	case c.events <- event:
	default:
	}
}
