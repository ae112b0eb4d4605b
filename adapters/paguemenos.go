package adapters

import (
	"fmt"

	"ean-price-extractor/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// PagueMenosAdapter knows how to find and read a product on the
// paguemenos.com.br search results page.
type PagueMenosAdapter struct {
	*BaseAdapter
}

// NewPagueMenosAdapter creates a new Pague Menos adapter
func NewPagueMenosAdapter(config *types.Config, logger types.Logger) *PagueMenosAdapter {
	return &PagueMenosAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// GetStoreName returns the store name
func (p *PagueMenosAdapter) GetStoreName() string {
	return "paguemenos.com.br"
}

// SearchURL returns the search page address for key. Barcodes are digits,
// so the key is appended without escaping.
func (p *PagueMenosAdapter) SearchURL(key types.LookupKey) string {
	return p.config.BaseURL + string(key)
}

// RenderRequest describes how the search page for key must be rendered:
// ready once the product name exists, settled once the price exists.
func (p *PagueMenosAdapter) RenderRequest(key types.LookupKey) types.RenderRequest {
	return types.RenderRequest{
		URL:            p.SearchURL(key),
		ReadySelector:  p.config.NameSelector,
		ReadyTimeout:   p.config.ReadyTimeout,
		SettleSelector: p.config.PriceSelector,
		SettleTimeout:  p.config.SettleTimeout,
	}
}

// Extract reads the product name and price from a rendered document
func (p *PagueMenosAdapter) Extract(key types.LookupKey, doc *goquery.Document) types.Result {
	nameEl, ok := p.FindFirst(doc, p.config.NameSelector)
	if !ok {
		return types.Failure(key, types.ReasonNameNotFound, nil)
	}
	priceEl, ok := p.FindFirst(doc, p.config.PriceSelector)
	if !ok {
		return types.Failure(key, types.ReasonPriceNotFound, nil)
	}

	name := p.ExtractText(nameEl)
	if name == "" {
		return types.Failure(key, types.ReasonParseError, fmt.Errorf("name element is empty"))
	}

	price, err := ParsePrice(p.ExtractText(priceEl))
	if err != nil {
		return types.Failure(key, types.ReasonParseError, err)
	}

	return types.Success(&types.ProductRecord{
		Key:   key,
		Name:  name,
		Price: price,
	})
}

// ExtractHTML parses html and extracts the product from it
func (p *PagueMenosAdapter) ExtractHTML(key types.LookupKey, html string) types.Result {
	doc, err := p.ParseHTML(html)
	if err != nil {
		return types.Failure(key, types.ReasonParseError, err)
	}
	return p.Extract(key, doc)
}
