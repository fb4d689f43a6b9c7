package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// openURL is a test seam for launching the browser.
var openURL = browser.OpenURL

// runOpen builds the handler for the open command.
func runOpen(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		flags := bindClientFlags(fs)
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitOK
			}
			return ExitUsage
		}
		if fs.NArg() > 1 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
			return ExitUsage
		}
		target, err := url.Parse(strings.TrimRight(flags.server, "/") + "/")
		if err != nil || target.Host == "" {
			fmt.Fprintf(stderr, "invalid server URL %q\n", flags.server)
			return ExitUsage
		}
		if id := strings.TrimSpace(fs.Arg(0)); id != "" {
			target = target.JoinPath("questions", id)
		}
		fmt.Fprintf(stdout, "Opening %s\n", target)
		if err := openURL(target.String()); err != nil {
			fmt.Fprintf(stderr, "Failed to open browser: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
