package testrun

// Status is the binary outcome reported for a single test line.
type Status string

const (
	// StatusPassed marks a test reported with the pass glyph.
	StatusPassed Status = "passed"
	// StatusFailed marks a test reported with the fail glyph.
	StatusFailed Status = "failed"
)

// ErrorKind classifies why a run or command did not complete normally.
type ErrorKind string

const (
	// KindBadRequest reports a request missing a required field.
	KindBadRequest ErrorKind = "bad_request"
	// KindProcessFailure reports a non-zero exit or a spawn failure.
	KindProcessFailure ErrorKind = "process_failure"
	// KindTimeout reports a command that exceeded its run deadline.
	KindTimeout ErrorKind = "timeout"
)

// TestResult is one recognized per-test line from the runner output.
type TestResult struct {
	ID          string `json:"id"`
	Status      Status `json:"status"`
	Description string `json:"description"`
}

// Passed reports whether the result carries the passed status.
func (r TestResult) Passed() bool {
	return r.Status == StatusPassed
}

// Summary aggregates counts over a result list.
type Summary struct {
	Total      int    `json:"total"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	QuestionID string `json:"questionId"`
}

// RunTestsRequest is the body of POST /run-tests.
type RunTestsRequest struct {
	QuestionID string `json:"questionId,omitempty"`
}

// RunOutcome is the body returned by POST /run-tests.
//
// Success mirrors the exit status of the test command only; individual
// results may still be failed when Success is true and vice versa.
type RunOutcome struct {
	Success     bool         `json:"success"`
	TestResults []TestResult `json:"testResults"`
	Summary     Summary      `json:"summary"`
	RawOutput   string       `json:"rawOutput"`
	Error       ErrorKind    `json:"error,omitempty"`
	ExitCode    int          `json:"exitCode"`
	DurationMs  int64        `json:"durationMs"`
	Truncated   bool         `json:"truncated,omitempty"`
}

// RunCommandRequest is the body of POST /run-command.
type RunCommandRequest struct {
	Command string `json:"command"`
}

// RunCommandResponse is the success body of POST /run-command.
type RunCommandResponse struct {
	Output string `json:"output"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind,omitempty"`
}
