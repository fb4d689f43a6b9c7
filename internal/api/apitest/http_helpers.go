package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"codebrush/internal/testutil"
	"codebrush/pkg/testrun"
)

// HTTPRunTests sends POST /run-tests and decodes the outcome.
func HTTPRunTests(t testing.TB, baseURL string, req any) testrun.RunOutcome {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal run-tests request: %v", err)
	}
	var resp testrun.RunOutcome
	body := doRequest(t, http.MethodPost, baseURL+"/run-tests", data)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode run outcome: %v", err)
	}
	return resp
}

// HTTPRunCommand sends POST /run-command and decodes a successful response.
func HTTPRunCommand(t testing.TB, baseURL string, command string) testrun.RunCommandResponse {
	t.Helper()
	data, err := json.Marshal(testrun.RunCommandRequest{Command: command})
	if err != nil {
		t.Fatalf("marshal run-command request: %v", err)
	}
	var resp testrun.RunCommandResponse
	body := doRequest(t, http.MethodPost, baseURL+"/run-command", data)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode run-command response: %v", err)
	}
	return resp
}

// HTTPGetJSON sends a GET request and decodes the JSON body into out.
func HTTPGetJSON(t testing.TB, url string, out any) {
	t.Helper()
	body := doRequest(t, http.MethodGet, url, nil)
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

// doRequest executes an HTTP request with a JSON payload and returns the body.
func doRequest(t testing.TB, method, url string, payload []byte) []byte {
	t.Helper()
	ctx := testutil.Context(t, 10*time.Second)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.Fatalf("unexpected status %d for %s %s: %s", resp.StatusCode, method, url, string(body))
	}
	return body
}
