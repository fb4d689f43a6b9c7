// Package apitest starts in-process codebrushd servers for tests.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"codebrush/internal/api"
	"codebrush/internal/question"
)

// ServerConfig wires dependencies for StartServer.
type ServerConfig struct {
	Runner api.CommandRunner
	// Catalog defaults to the built-in questions.
	Catalog           *question.Catalog
	DefaultQuestionID string
	RunCommandEnabled bool
	Now               func() time.Time
}

// ServerInstance represents a running HTTP test server.
type ServerInstance struct {
	BaseURL string
	Close   func()
}

// StartServer launches an in-process HTTP server for the test runner API.
func StartServer(t *testing.T, cfg ServerConfig) *ServerInstance {
	t.Helper()
	if cfg.Catalog == nil {
		catalog, err := question.DefaultCatalog()
		if err != nil {
			t.Fatalf("load default catalog: %v", err)
		}
		cfg.Catalog = catalog
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	handler := api.NewHandler(api.Config{
		Runner:            cfg.Runner,
		Catalog:           cfg.Catalog,
		DefaultQuestionID: cfg.DefaultQuestionID,
		RunCommandEnabled: cfg.RunCommandEnabled,
		Now:               cfg.Now,
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &ServerInstance{
		BaseURL: server.URL,
		Close:   server.Close,
	}
}
