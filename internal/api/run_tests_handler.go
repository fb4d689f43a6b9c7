package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"codebrush/internal/runner"
	"codebrush/internal/testoutput"
	"codebrush/pkg/testrun"
)

func (h *handler) handleRunTests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	questionID := h.defaultQuestionID
	if req, ok := decodeRunTestsRequest(r); ok {
		if id := strings.TrimSpace(req.QuestionID); id != "" {
			questionID = id
		}
	}
	logger := requestLogger(h.logger, r).With("question_id", questionID)
	logger.Info("running tests")

	result, err := h.runner.RunTests(r.Context(), questionID)
	outcome := h.buildOutcome(questionID, result, err)
	if err != nil {
		logger.Warn("test command failed", "kind", outcome.Error, "exit_code", outcome.ExitCode, "error", err)
	}
	logger.Info("tests finished",
		"total", outcome.Summary.Total,
		"passed", outcome.Summary.Passed,
		"failed", outcome.Summary.Failed,
		"duration_ms", outcome.DurationMs,
	)
	writeJSON(w, http.StatusOK, outcome)
}

// decodeRunTestsRequest reads the optional body; anything unreadable counts as empty.
func decodeRunTestsRequest(r *http.Request) (testrun.RunTestsRequest, bool) {
	var req testrun.RunTestsRequest
	if r.Body == nil {
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return testrun.RunTestsRequest{}, false
	}
	return req, true
}

func (h *handler) buildOutcome(questionID string, result runner.Result, runErr error) testrun.RunOutcome {
	raw := result.CombinedOutput()
	if raw == "" && errors.Is(runErr, runner.ErrSpawn) {
		raw = runErr.Error()
	}
	results := h.grammar.Parse(raw)
	return testrun.RunOutcome{
		Success:     runErr == nil,
		TestResults: results,
		Summary:     testoutput.Summarize(results, questionID),
		RawOutput:   raw,
		Error:       classifyRunError(runErr),
		ExitCode:    result.ExitCode,
		DurationMs:  result.Duration.Milliseconds(),
		Truncated:   result.Truncated,
	}
}

func classifyRunError(err error) testrun.ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, runner.ErrTimeout) {
		return testrun.KindTimeout
	}
	return testrun.KindProcessFailure
}
