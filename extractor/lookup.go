package extractor

import (
	"context"
	"errors"
	"fmt"

	"ean-price-extractor/adapters"
	"ean-price-extractor/internal/types"
)

// LookupClient resolves a single lookup key into a product using a shared
// browser session.
type LookupClient struct {
	adapter *adapters.PagueMenosAdapter
	logger  types.Logger
}

// NewLookupClient creates a new lookup client
func NewLookupClient(config *types.Config, logger types.Logger) *LookupClient {
	return &LookupClient{
		adapter: adapters.NewPagueMenosAdapter(config, logger),
		logger:  logger,
	}
}

// Lookup renders the search page for key on renderer and extracts the
// product from it. It always returns a Result; every error, and any panic
// raised by the browser layer, becomes a LookupFailure.
func (c *LookupClient) Lookup(ctx context.Context, renderer types.Renderer, key types.LookupKey) (result types.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("Recovered from panic while looking up %s: %v", key, r)
			result = types.Failure(key, types.ReasonBrowserError, fmt.Errorf("panic: %v", r))
		}
	}()

	req := c.adapter.RenderRequest(key)
	c.logger.Debugf("[%s] navigating to %s, waiting up to %v for %s", key, req.URL, req.ReadyTimeout, req.ReadySelector)

	html, err := renderer.Render(ctx, req)
	if err != nil {
		reason := failureReason(err)
		c.logger.Debugf("[%s] render failed (%s): %v", key, reason, err)
		return types.Failure(key, reason, err)
	}

	c.logger.Debugf("[%s] extracting from %d bytes of rendered HTML", key, len(html))
	return c.adapter.ExtractHTML(key, html)
}

// StoreName returns the storefront the client looks keys up on
func (c *LookupClient) StoreName() string {
	return c.adapter.GetStoreName()
}

// failureReason maps a render error onto the failure taxonomy
func failureReason(err error) types.FailureReason {
	switch {
	case errors.Is(err, types.ErrReadinessTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return types.ReasonTimeout
	default:
		return types.ReasonBrowserError
	}
}
