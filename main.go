// Package main implements a Code/Data log guided NES disassembler that outputs WLA-DX projects.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/nescdldisasm/internal/cli"
	"github.com/retroenv/nescdldisasm/internal/config"
	"github.com/retroenv/nescdldisasm/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage()
		} else {
			config.CreateLogger(opts.Flags).Error("Parsing arguments failed", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	printBanner(logger)

	result, err := pipeline.New(logger).Execute(ctx, opts)
	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
		} else {
			logger.Error("Disassembling failed", log.Err(err))
		}
		os.Exit(1)
	}

	logger.Info("Disassembling finished",
		log.Int("banks", result.Banks),
		log.Int("labels", result.Labels),
		log.Int("unresolved_labels", len(result.Unresolved)))
}

func printBanner(logger *log.Logger) {
	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += " (" + commit + ")"
	}
	logger.Debug("nescdldisasm", log.String("version", versionString))
}
