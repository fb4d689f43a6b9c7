package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"codebrush/internal/runner"
	"codebrush/pkg/testrun"
)

const commandRequiredMessage = "Command is required"

func (h *handler) handleRunCommand(w http.ResponseWriter, r *http.Request) {
	if !h.runCommandEnabled {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req testrun.RunCommandRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		writeJSON(w, http.StatusBadRequest, testrun.ErrorResponse{Error: commandRequiredMessage, Kind: testrun.KindBadRequest})
		return
	}

	logger := requestLogger(h.logger, r)
	logger.Info("running command", "command", command)
	result, err := h.runner.RunShell(r.Context(), command)
	if err != nil {
		logger.Warn("command failed", "exit_code", result.ExitCode, "error", err)
		writeJSON(w, http.StatusInternalServerError, commandFailure(result, err))
		return
	}
	writeJSON(w, http.StatusOK, testrun.RunCommandResponse{Output: result.Stdout})
}

// commandFailure reports stderr for failed commands and the error text when stderr is empty.
func commandFailure(result runner.Result, err error) testrun.ErrorResponse {
	if errors.Is(err, runner.ErrTimeout) {
		return testrun.ErrorResponse{Error: runner.ErrTimeout.Error(), Kind: testrun.KindTimeout}
	}
	message := result.Stderr
	if message == "" && !isExitError(err) {
		message = err.Error()
	}
	return testrun.ErrorResponse{Error: message, Kind: testrun.KindProcessFailure}
}

func isExitError(err error) bool {
	var exitErr *runner.ExitError
	return errors.As(err, &exitErr)
}
