package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/armon/circbuf"
	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-shellwords"
)

const (
	// DefaultQuestionEnv names the variable carrying the question ID.
	DefaultQuestionEnv = "TEST_QUESTION_ID"
	// DefaultTimeout bounds a single command run.
	DefaultTimeout = 2 * time.Minute
	// DefaultMaxOutputBytes caps each captured stream.
	DefaultMaxOutputBytes int64 = 8 << 20
	// DefaultShell runs free-form command lines.
	DefaultShell = "sh"
	// waitDelay bounds how long Wait blocks on pipes held open by grandchildren.
	waitDelay = 2 * time.Second
)

var (
	// ErrTimeout reports a command that exceeded its run deadline.
	ErrTimeout = errors.New("command timed out")
	// ErrSpawn reports a command that could not be started.
	ErrSpawn = errors.New("spawn command")
	// ErrEmptyCommand reports a blank command line.
	ErrEmptyCommand = errors.New("command is empty")
)

// ExitError reports a command that ran and exited with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

// Error returns a readable message for non-zero exits.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Config configures command execution.
type Config struct {
	// Command is the test command line, split with shell word rules.
	Command string
	// QuestionEnv names the variable that receives the question ID.
	QuestionEnv string
	// Dir is the working directory; empty uses the server's directory.
	Dir string
	// Timeout bounds each run; zero uses DefaultTimeout, negative disables it.
	Timeout time.Duration
	// MaxOutputBytes caps each captured stream; overflow keeps the tail.
	MaxOutputBytes int64
	// Shell runs free-form command lines with "-c".
	Shell string
	// MaxConcurrent is the number of run slots shared by all requests.
	MaxConcurrent int
	// Env is the base environment; nil inherits the process environment.
	Env    []string
	Logger hclog.Logger
}

// Result captures the outcome of a finished command.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
	Truncated bool
}

// CombinedOutput returns stdout followed by stderr.
func (r Result) CombinedOutput() string {
	return r.Stdout + r.Stderr
}

// Runner executes the test command and free-form command lines.
type Runner struct {
	argv        []string
	questionEnv string
	dir         string
	timeout     time.Duration
	maxOutput   int64
	shell       string
	env         []string
	slots       *Slots
	logger      hclog.Logger
	now         func() time.Time
}

// New validates cfg and constructs a Runner.
func New(cfg Config) (*Runner, error) {
	argv, err := shellwords.Parse(strings.TrimSpace(cfg.Command))
	if err != nil {
		return nil, fmt.Errorf("parse test command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("test command: %w", ErrEmptyCommand)
	}
	r := &Runner{
		argv:        argv,
		questionEnv: cfg.QuestionEnv,
		dir:         cfg.Dir,
		timeout:     cfg.Timeout,
		maxOutput:   cfg.MaxOutputBytes,
		shell:       cfg.Shell,
		env:         cfg.Env,
		slots:       NewSlots(cfg.MaxConcurrent),
		logger:      cfg.Logger,
		now:         time.Now,
	}
	if r.questionEnv == "" {
		r.questionEnv = DefaultQuestionEnv
	}
	if r.timeout == 0 {
		r.timeout = DefaultTimeout
	}
	if r.maxOutput <= 0 {
		r.maxOutput = DefaultMaxOutputBytes
	}
	if r.shell == "" {
		r.shell = DefaultShell
	}
	if r.logger == nil {
		r.logger = hclog.NewNullLogger()
	}
	return r, nil
}

// TestCommand returns the parsed test command argv.
func (r *Runner) TestCommand() []string {
	return append([]string(nil), r.argv...)
}

// RunTests runs the test command with the question ID in the environment.
func (r *Runner) RunTests(ctx context.Context, questionID string) (Result, error) {
	env := withEnv(r.baseEnv(), r.questionEnv, questionID)
	return r.run(ctx, r.argv, env)
}

// RunShell runs a free-form command line through the configured shell.
func (r *Runner) RunShell(ctx context.Context, command string) (Result, error) {
	if strings.TrimSpace(command) == "" {
		return Result{}, ErrEmptyCommand
	}
	return r.run(ctx, []string{r.shell, "-c", command}, r.baseEnv())
}

// run acquires a slot, executes argv, and classifies the outcome.
func (r *Runner) run(ctx context.Context, argv []string, env []string) (Result, error) {
	waitStart := r.now()
	release, err := r.slots.Acquire(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("wait for run slot: %w", err)
	}
	defer release()
	if waited := r.now().Sub(waitStart); waited > 100*time.Millisecond {
		r.logger.Debug("run slot acquired", "waited", waited)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	stdout, err := circbuf.NewBuffer(r.maxOutput)
	if err != nil {
		return Result{}, fmt.Errorf("allocate stdout buffer: %w", err)
	}
	stderr, err := circbuf.NewBuffer(r.maxOutput)
	if err != nil {
		return Result{}, fmt.Errorf("allocate stderr buffer: %w", err)
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	started := r.now()
	r.logger.Debug("starting command", "argv", argv, "dir", r.dir)
	if err := cmd.Start(); err != nil {
		return Result{StartedAt: started, ExitCode: -1}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	waitErr := cmd.Wait()

	result := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  cmd.ProcessState.ExitCode(),
		StartedAt: started,
		Duration:  r.now().Sub(started),
		Truncated: stdout.TotalWritten() > stdout.Size() || stderr.TotalWritten() > stderr.Size(),
	}
	r.logger.Debug("command finished", "exit_code", result.ExitCode, "duration", result.Duration)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, &ExitError{Code: result.ExitCode, Stderr: result.Stderr}
		}
		return result, fmt.Errorf("wait for command: %w", waitErr)
	}
	return result, nil
}

// baseEnv returns the environment inherited by spawned commands.
func (r *Runner) baseEnv() []string {
	if r.env != nil {
		return append([]string(nil), r.env...)
	}
	return os.Environ()
}

// withEnv returns env with key set to value, replacing earlier entries.
func withEnv(env []string, key, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			continue
		}
		out = append(out, entry)
	}
	return append(out, prefix+value)
}
