// Package logging builds the structured loggers used by the server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
	// File, when set, replaces Output with a size-rotated log file.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds an hclog logger, rejecting unknown level names.
func New(opts Options) (hclog.Logger, error) {
	level := hclog.Info
	if name := strings.TrimSpace(opts.Level); name != "" {
		level = hclog.LevelFromString(name)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("unknown log level %q (expected trace|debug|info|warn|error)", opts.Level)
		}
	}
	output := opts.Output
	if file := strings.TrimSpace(opts.File); file != "" {
		output = RotatingFile(file, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
	}
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      level,
		Output:     output,
		JSONFormat: opts.JSON,
	}), nil
}

// RotatingFile returns a writer that rotates path once it reaches maxSizeMB.
// Zero limits keep lumberjack's defaults: 100 MB, every backup, any age.
func RotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
}
