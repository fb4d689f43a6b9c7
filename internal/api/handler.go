package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/hashicorp/go-hclog"

	"codebrush/internal/question"
	"codebrush/internal/runner"
	"codebrush/internal/testoutput"
)

const (
	// DefaultQuestionID is used when a run-tests request names no question.
	DefaultQuestionID = "q2"
	// DefaultAllowedOrigin is the browser origin allowed by CORS.
	DefaultAllowedOrigin = "http://localhost:8080"
)

// CommandRunner executes the test command and free-form command lines.
type CommandRunner interface {
	RunTests(ctx context.Context, questionID string) (runner.Result, error)
	RunShell(ctx context.Context, command string) (runner.Result, error)
}

// Config wires dependencies for the HTTP handler.
type Config struct {
	Runner  CommandRunner
	Catalog *question.Catalog
	Grammar testoutput.Grammar
	// DefaultQuestionID replaces a missing or blank questionId.
	DefaultQuestionID string
	AllowedOrigin     string
	// RunCommandEnabled exposes POST /run-command.
	RunCommandEnabled bool
	Logger            hclog.Logger
	Now               func() time.Time
}

// NewHandler builds the HTTP handler for the test runner API.
func NewHandler(cfg Config) http.Handler {
	h := &handler{
		runner:            cfg.Runner,
		catalog:           cfg.Catalog,
		grammar:           cfg.Grammar,
		defaultQuestionID: strings.TrimSpace(cfg.DefaultQuestionID),
		runCommandEnabled: cfg.RunCommandEnabled,
		logger:            cfg.Logger,
		nowFn:             cfg.Now,
	}
	if h.defaultQuestionID == "" {
		h.defaultQuestionID = DefaultQuestionID
	}
	if h.logger == nil {
		h.logger = hclog.NewNullLogger()
	}
	if h.nowFn == nil {
		h.nowFn = time.Now
	}
	origin := strings.TrimSpace(cfg.AllowedOrigin)
	if origin == "" {
		origin = DefaultAllowedOrigin
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/run-tests", h.handleRunTests)
	mux.HandleFunc("/run-command", h.handleRunCommand)
	mux.HandleFunc("/questions", h.handleQuestions)
	mux.HandleFunc("/questions/", h.handleQuestionByID)
	mux.HandleFunc("/", h.handleIndex(templ.Handler(indexPage(h.catalog))))
	return withRequestLog(h.logger, h.nowFn, withCORS(origin, mux))
}

type handler struct {
	runner            CommandRunner
	catalog           *question.Catalog
	grammar           testoutput.Grammar
	defaultQuestionID string
	runCommandEnabled bool
	logger            hclog.Logger
	nowFn             func() time.Time
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) handleIndex(page http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		page.ServeHTTP(w, r)
	}
}
