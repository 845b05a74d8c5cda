// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/retroenv/nescdldisasm/internal/options"
)

const (
	name        = "nescdldisasm"
	description = "Disassembles an iNES ROM guided by a Code/Data log into a WLA-DX project."
)

// ParseFlags parses the command line arguments, excluding the program name,
// and returns the program options.
func ParseFlags(args []string) (options.Program, error) {
	return parse(args, os.Stdout, os.Stderr, os.Exit)
}

// parse parses the arguments, exit is called after printing the help.
func parse(args []string, stdout, stderr io.Writer, exit func(int)) (options.Program, error) {
	var opts options.Program

	parser, err := kong.New(&opts,
		kong.Name(name),
		kong.Description(description),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return opts, fmt.Errorf("creating argument parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		usageErr := &UsageError{
			msg:    err.Error(),
			writer: stdout,
		}

		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			usageErr.ctx = parseErr.Context
		}
		return opts, usageErr
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	ctx    *kong.Context
	msg    string
	writer io.Writer
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the error and the usage of the program.
func (e *UsageError) ShowUsage() {
	_, _ = fmt.Fprintf(e.writer, "error: %s\n\n", e.msg)
	if e.ctx == nil {
		_, _ = fmt.Fprintf(e.writer, "usage: %s <rom> --cdl=<file> --output=<dir>\n", name)
		return
	}
	_ = e.ctx.PrintUsage(false)
}
