package types

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/andybalholm/cascadia"
)

// Config holds the configuration for the extractor
type Config struct {
	InputFile  string
	OutputFile string

	// BaseURL is concatenated with the lookup key to form the search URL
	BaseURL       string
	NameSelector  string
	PriceSelector string

	ReadyTimeout  time.Duration
	SettleTimeout time.Duration
	RequestDelay  time.Duration

	Headless  bool
	UserAgent string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		InputFile:     "eans.txt",
		OutputFile:    "produtos_paguemenos.csv",
		BaseURL:       "https://www.paguemenos.com.br/busca?termo=",
		NameSelector:  "h2.paguemenos-store-theme-7-x-productName",
		PriceSelector: "div.paguemenos-store-theme-7-x-price",
		ReadyTimeout:  10 * time.Second,
		SettleTimeout: 1 * time.Second,
		RequestDelay:  0,
		Headless:      true,
		UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// LoadConfig returns DefaultConfig overlaid with EAN_* environment variables
func LoadConfig() *Config {
	c := DefaultConfig()
	c.InputFile = envOr("EAN_INPUT_FILE", c.InputFile)
	c.OutputFile = envOr("EAN_OUTPUT_FILE", c.OutputFile)
	c.BaseURL = envOr("EAN_BASE_URL", c.BaseURL)
	c.NameSelector = envOr("EAN_NAME_SELECTOR", c.NameSelector)
	c.PriceSelector = envOr("EAN_PRICE_SELECTOR", c.PriceSelector)
	c.ReadyTimeout = envDurationOr("EAN_READY_TIMEOUT", c.ReadyTimeout)
	c.SettleTimeout = envDurationOr("EAN_SETTLE_TIMEOUT", c.SettleTimeout)
	c.RequestDelay = envDurationOr("EAN_REQUEST_DELAY", c.RequestDelay)
	c.Headless = envBoolOr("EAN_HEADLESS", c.Headless)
	c.UserAgent = envOr("EAN_USER_AGENT", c.UserAgent)
	return c
}

// Validate checks that the configuration can drive a batch
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file path is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file path is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https, got %q", c.BaseURL)
	}

	for name, sel := range map[string]string{
		"name selector":  c.NameSelector,
		"price selector": c.PriceSelector,
	} {
		if sel == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, sel, err)
		}
	}

	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("ready timeout must be positive")
	}
	if c.SettleTimeout < 0 {
		return fmt.Errorf("settle timeout cannot be negative")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay cannot be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
