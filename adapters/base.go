package adapters

import (
	"fmt"
	"strings"

	"ean-price-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides the document helpers shared by store adapters.
type BaseAdapter struct {
	config *types.Config
	logger types.Logger
}

// NewBaseAdapter creates a new base adapter
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config: config,
		logger: logger,
	}
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FindFirst returns the first element matching selector and whether one exists.
// Presence is reported separately from text so that an empty element is not
// mistaken for a missing one.
func (b *BaseAdapter) FindFirst(doc *goquery.Document, selector string) (*goquery.Selection, bool) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil, false
	}
	if sel.Length() > 1 {
		b.logger.Debugf("%d elements match %s, using the first", sel.Length(), selector)
	}
	return sel.First(), true
}

// ExtractText returns the trimmed visible text of an element
func (b *BaseAdapter) ExtractText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// Config returns the config field of the BaseAdapter
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}
