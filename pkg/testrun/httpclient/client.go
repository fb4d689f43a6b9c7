package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"codebrush/pkg/testrun"
)

// NetworkError reports that the server could not be reached or did not answer.
type NetworkError struct {
	URL string
	Err error
}

// Error returns a readable message for network failures.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("reach %s: %v", e.URL, e.Err)
}

// Unwrap exposes the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx response decoded from the error body.
type StatusError struct {
	Status  int
	Message string
	Kind    testrun.ErrorKind
}

// Error returns a readable message for HTTP status failures.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// IsNetworkError reports whether err was caused by an unreachable server.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// Client talks to a codebrushd server.
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: cleanhttp.DefaultClient()}
}

// NewWithTimeout constructs a client for the given base URL with a request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	client := cleanhttp.DefaultClient()
	client.Timeout = timeout
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// BaseURL returns the server address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RunTests asks the server to run the test command for a question.
func (c *Client) RunTests(ctx context.Context, req testrun.RunTestsRequest) (testrun.RunOutcome, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return testrun.RunOutcome{}, err
	}
	body, status, err := c.post(ctx, "/run-tests", payload)
	if err != nil {
		return testrun.RunOutcome{}, err
	}
	if status != http.StatusOK {
		return testrun.RunOutcome{}, decodeHTTPError(status, body)
	}
	var res testrun.RunOutcome
	if err := json.Unmarshal(body, &res); err != nil {
		return testrun.RunOutcome{}, fmt.Errorf("decode run outcome: %w", err)
	}
	return res, nil
}

// RunCommand asks the server to execute an arbitrary command line.
func (c *Client) RunCommand(ctx context.Context, req testrun.RunCommandRequest) (testrun.RunCommandResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return testrun.RunCommandResponse{}, err
	}
	body, status, err := c.post(ctx, "/run-command", payload)
	if err != nil {
		return testrun.RunCommandResponse{}, err
	}
	if status != http.StatusOK {
		return testrun.RunCommandResponse{}, decodeHTTPError(status, body)
	}
	var res testrun.RunCommandResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return testrun.RunCommandResponse{}, fmt.Errorf("decode command response: %w", err)
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, int, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &NetworkError{URL: url, Err: err}
	}
	return body, resp.StatusCode, nil
}

func decodeHTTPError(status int, body []byte) error {
	var resp testrun.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return &StatusError{Status: status, Message: resp.Error, Kind: resp.Kind}
	}
	return &StatusError{Status: status}
}
