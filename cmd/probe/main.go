package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"ean-price-extractor/adapters"
	"ean-price-extractor/internal/types"
	"ean-price-extractor/utils"

	"github.com/PuerkitoBio/goquery"
)

// probe renders the search page of one EAN and reports what the configured
// selectors see. Useful when the storefront markup changes.
func main() {
	config := types.LoadConfig()

	ean := flag.String("ean", "7908324405125", "EAN to render")
	headless := flag.Bool("headless", true, "Run Chrome without a window")
	flag.Parse()
	config.Headless = *headless

	key, ok := types.ParseLookupKey(*ean)
	if !ok {
		log.Fatal("-ean must not be empty")
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := &debugLogger{}
	adapter := adapters.NewPagueMenosAdapter(config, logger)

	session, err := utils.NewBrowserSession(context.Background(), config, logger)
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer session.Close()

	req := adapter.RenderRequest(key)
	fmt.Printf("=== Rendering %s (%s) ===\n", req.URL, adapter.GetStoreName())
	html, err := session.Render(context.Background(), req)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		return
	}

	doc, err := adapter.ParseHTML(html)
	if err != nil {
		fmt.Printf("Failed to parse HTML: %v\n", err)
		return
	}

	for _, selector := range []string{config.NameSelector, config.PriceSelector} {
		matches := doc.Find(selector)
		fmt.Printf("Elements matching %s: %d\n", selector, matches.Length())
		matches.Each(func(i int, s *goquery.Selection) {
			if i >= 5 {
				return
			}
			fmt.Printf("  %d: text=%q\n", i+1, strings.TrimSpace(s.Text()))
		})
	}

	// Near misses help when the theme version in the class names changes
	fmt.Println("Elements with 'productName' or 'price' in class:")
	doc.Find("[class*='productName'], [class*='price']").Each(func(i int, s *goquery.Selection) {
		if i >= 10 {
			return
		}
		class, _ := s.Attr("class")
		fmt.Printf("  %d: <%s class='%s'> text=%q\n", i+1, goquery.NodeName(s), class, strings.TrimSpace(s.Text()))
	})

	result := adapter.Extract(key, doc)
	if result.OK() {
		fmt.Printf("Extracted: name=%q price=%s\n", result.Record.Name, result.Record.Price.StringFixed(2))
	} else {
		fmt.Printf("Extraction failed: %v\n", result.Failure)
	}
}

type debugLogger struct{}

func (d *debugLogger) Debug(args ...interface{})                 { fmt.Println(args...) }
func (d *debugLogger) Info(args ...interface{})                  { fmt.Println(args...) }
func (d *debugLogger) Warn(args ...interface{})                  { fmt.Println(args...) }
func (d *debugLogger) Error(args ...interface{})                 { fmt.Println(args...) }
func (d *debugLogger) Debugf(format string, args ...interface{}) { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Infof(format string, args ...interface{})  { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Warnf(format string, args ...interface{})  { fmt.Printf(format+"\n", args...) }
func (d *debugLogger) Errorf(format string, args ...interface{}) { fmt.Printf(format+"\n", args...) }
