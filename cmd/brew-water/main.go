package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/brew-water/internal/analysis"
	"github.com/iwvelando/brew-water/internal/config"
	"github.com/iwvelando/brew-water/internal/history"
	"github.com/iwvelando/brew-water/internal/logging"
	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/output"
	"github.com/iwvelando/brew-water/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}

	err = validation.ValidateOutputFormat(conf.Output.Format)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Run the configured evaluate, optimize and blend tasks.
	reports, err := analysis.Run(logger, *conf)
	if err != nil {
		logger.Fatal("failed to run analysis",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Keep a record of the run when a history database is configured.
	if conf.History.Path != "" {
		store, err := history.Open(conf.History.Path)
		if err != nil {
			logger.Fatal("failed to open history",
				zap.String("op", "main"),
				zap.String("path", conf.History.Path),
				zap.Error(err),
			)
		}
		ids, err := analysis.Save(context.Background(), logger, store, reports)
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("failed to close history",
				zap.String("op", "main"),
				zap.Error(closeErr),
			)
		}
		if err != nil {
			logger.Fatal("failed to save reports",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info(fmt.Sprintf("saved %d reports", len(ids)),
			zap.String("op", "main"),
			zap.String("path", conf.History.Path),
		)
	}

	// Handle output.
	if err := output.Write(os.Stdout, conf.Output.Format, reports); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
