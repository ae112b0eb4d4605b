package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ean-price-extractor/extractor"
	"ean-price-extractor/internal/types"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	config := types.LoadConfig()

	// Parse command line flags
	var (
		inputFlag    = flag.String("input", config.InputFile, "File with one EAN per line")
		outputFlag   = flag.String("output", config.OutputFile, "CSV output file")
		baseURL      = flag.String("base-url", config.BaseURL, "Search URL the EAN is appended to")
		readyTimeout = flag.Duration("timeout", config.ReadyTimeout, "Maximum wait for the product name to render")
		settle       = flag.Duration("settle", config.SettleTimeout, "Maximum extra wait for the price to render")
		requestDelay = flag.Duration("delay", config.RequestDelay, "Minimum delay between lookups")
		headless     = flag.Bool("headless", config.Headless, "Run Chrome without a window")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	config.InputFile = *inputFlag
	config.OutputFile = *outputFlag
	config.BaseURL = *baseURL
	config.ReadyTimeout = *readyTimeout
	config.SettleTimeout = *settle
	config.RequestDelay = *requestDelay
	config.Headless = *headless

	logger := newLogger(*verbose)

	if err := config.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Interrupts cancel the run; the browser is still shut down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := extractor.NewBatchRunner(config, logger, extractor.BrowserSessionFactory(config, logger))
	job := extractor.NewJob(config, logger, runner)

	startTime := time.Now()
	report, err := job.Run(ctx)
	if errors.Is(err, types.ErrSinkWrite) {
		stop()
		logger.Fatalf("Failed to save CSV file: %v", err)
	}
	if err != nil {
		stop()
		logger.Fatalf("Lookup failed: %v", err)
	}

	if report.Outcome == extractor.OutcomeCompleted {
		logger.Infof("Finished in %v", time.Since(startTime))
		logger.Infof("Total EANs processed: %d", len(report.Batch.Results))
		logger.Infof("Products found: %d", report.Batch.Succeeded())
		logger.Infof("Not found: %d", report.Batch.Failed())
		logger.Infof("Results written to: %s", report.OutputFile)
	}
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	// Set log level from LOG_LEVEL env if present
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
