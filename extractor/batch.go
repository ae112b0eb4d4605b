package extractor

import (
	"context"
	"fmt"
	"time"

	"ean-price-extractor/internal/types"
	"ean-price-extractor/utils"

	"golang.org/x/time/rate"
)

// SessionFactory opens the browser session used by one batch
type SessionFactory func(ctx context.Context) (types.Session, error)

// BrowserSessionFactory returns a SessionFactory that launches headless Chrome
func BrowserSessionFactory(config *types.Config, logger types.Logger) SessionFactory {
	return func(ctx context.Context) (types.Session, error) {
		session, err := utils.NewBrowserSession(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// BatchRunner looks up a list of keys one after another on a single
// browser session. A failed lookup never stops the batch.
type BatchRunner struct {
	config      *types.Config
	logger      types.Logger
	client      *LookupClient
	openSession SessionFactory
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(config *types.Config, logger types.Logger, openSession SessionFactory) *BatchRunner {
	return &BatchRunner{
		config:      config,
		logger:      logger,
		client:      NewLookupClient(config, logger),
		openSession: openSession,
	}
}

// Run looks up every key in order and returns one result per key.
// An empty key list returns types.ErrNoKeys without opening a session.
func (r *BatchRunner) Run(ctx context.Context, keys []types.LookupKey) (*types.BatchResult, error) {
	if len(keys) == 0 {
		return nil, types.ErrNoKeys
	}

	session, err := r.openSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Warnf("Failed to close browser session: %v", err)
		}
	}()

	startTime := time.Now()
	r.logger.Infof("Starting lookup of %d product(s) on %s", len(keys), r.client.StoreName())

	limiter := r.newLimiter()
	batch := &types.BatchResult{Results: make([]types.Result, 0, len(keys))}

	for i, key := range keys {
		r.logger.Infof("Processing %d/%d: %s", i+1, len(keys), key)

		var result types.Result
		if err := limiter.Wait(ctx); err != nil {
			result = types.Failure(key, types.ReasonTimeout, err)
		} else {
			result = r.client.Lookup(ctx, session, key)
		}

		if result.OK() {
			r.logger.Infof("  -> Product found: %s (%s)", result.Record.Name, result.Record.Price.StringFixed(2))
		} else {
			r.logger.Warnf("  -> No product for %s: %v", key, result.Failure)
		}
		batch.Results = append(batch.Results, result)
	}

	r.logger.Infof("Lookup completed in %v", time.Since(startTime))
	r.logger.Infof("Found %d/%d products", batch.Succeeded(), len(keys))
	return batch, nil
}

// newLimiter paces consecutive lookups by RequestDelay. A zero delay
// disables pacing.
func (r *BatchRunner) newLimiter() *rate.Limiter {
	if r.config.RequestDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(r.config.RequestDelay), 1)
}
