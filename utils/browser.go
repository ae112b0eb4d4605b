package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ean-price-extractor/internal/types"
	"github.com/chromedp/chromedp"
)

// BrowserSession is one headless Chrome tab reused for every page of a batch.
// It must not be used concurrently.
type BrowserSession struct {
	config *types.Config
	logger types.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

// ExecAllocatorOptions returns the Chrome launch options for config
func ExecAllocatorOptions(config *types.Config) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.UserAgent(config.UserAgent),
	)
}

// NewBrowserSession launches Chrome and opens the tab used by Render.
// ctx bounds the lifetime of the whole browser.
func NewBrowserSession(ctx context.Context, config *types.Config, logger types.Logger) (*BrowserSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, ExecAllocatorOptions(config)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Debugf),
		chromedp.WithErrorf(logger.Debugf),
	)

	// The first Run starts the browser. It has to happen on a context without
	// a deadline, otherwise the first render timeout would kill Chrome.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debugf("Browser session started (headless=%v)", config.Headless)
	return &BrowserSession{
		config:      config,
		logger:      logger,
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Render navigates the tab to req.URL, waits for req.ReadySelector and
// returns the rendered HTML. A missing ready selector yields an error
// wrapping types.ErrReadinessTimeout.
func (b *BrowserSession) Render(ctx context.Context, req types.RenderRequest) (string, error) {
	start := time.Now()

	readyCtx, cancel := b.bound(ctx, req.ReadyTimeout)
	err := chromedp.Run(readyCtx,
		chromedp.Navigate(req.URL),
		chromedp.WaitReady(req.ReadySelector, chromedp.ByQuery),
	)
	timedOut := errors.Is(readyCtx.Err(), context.DeadlineExceeded)
	cancel()
	if err != nil {
		return "", renderError(ctx, err, timedOut, req)
	}
	b.logger.Debugf("Ready selector %s present after %v", req.ReadySelector, time.Since(start))

	if req.SettleSelector != "" && req.SettleTimeout > 0 {
		settleCtx, cancel := b.bound(ctx, req.SettleTimeout)
		err := chromedp.Run(settleCtx, chromedp.WaitReady(req.SettleSelector, chromedp.ByQuery))
		cancel()
		if ctx.Err() != nil {
			return "", fmt.Errorf("render cancelled: %w", ctx.Err())
		}
		if err != nil {
			b.logger.Debugf("Settle selector %s not present after %v", req.SettleSelector, req.SettleTimeout)
		}
	}

	var html string
	contentCtx, cancel := b.bound(ctx, req.ReadyTimeout)
	err = chromedp.Run(contentCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("render cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	b.logger.Debugf("Successfully retrieved page content from %s (%d bytes)", req.URL, len(html))
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *BrowserSession) Close() error {
	b.closeOnce.Do(func() {
		if err := chromedp.Cancel(b.ctx); err != nil && !errors.Is(err, context.Canceled) {
			b.closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		b.cancel()
		b.allocCancel()
		b.logger.Debug("Browser session closed")
	})
	return b.closeErr
}

// bound derives a context from the tab that expires after d or when ctx is done
func (b *BrowserSession) bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(b.ctx, d)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	return runCtx, cancel
}

// renderError classifies an error from the navigate-and-wait step.
// timedOut reports whether the readiness deadline expired.
func renderError(ctx context.Context, err error, timedOut bool, req types.RenderRequest) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("render cancelled: %w", ctx.Err())
	case timedOut || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s not present after %v", types.ErrReadinessTimeout, req.ReadySelector, req.ReadyTimeout)
	default:
		return fmt.Errorf("failed to load %s: %w", req.URL, err)
	}
}
