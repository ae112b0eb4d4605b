package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NotFound is written in place of the name and price of a failed lookup
const NotFound = "NOT_FOUND"

var (
	// ErrInputMissing is returned when the key file does not exist
	ErrInputMissing = errors.New("input file not found")

	// ErrInputEmpty is returned when the key file exists but holds no keys
	ErrInputEmpty = errors.New("input file has no keys")

	// ErrNoKeys is returned by a batch run started with an empty key list
	ErrNoKeys = errors.New("no lookup keys to process")

	// ErrSinkWrite is returned when the result table cannot be written
	ErrSinkWrite = errors.New("failed to write results")

	// ErrReadinessTimeout is returned when the readiness selector never appears
	ErrReadinessTimeout = errors.New("readiness condition not met before timeout")
)

// LookupKey identifies a product on the storefront (an EAN barcode)
type LookupKey string

// ParseLookupKey trims s and rejects empty keys
func ParseLookupKey(s string) (LookupKey, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return LookupKey(s), true
}

// FailureReason classifies why a lookup produced no product
type FailureReason int

const (
	ReasonNameNotFound FailureReason = iota + 1
	ReasonPriceNotFound
	ReasonTimeout
	ReasonParseError
	// ReasonBrowserError covers automation failures that fit no other reason
	ReasonBrowserError
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNameNotFound:
		return "name_not_found"
	case ReasonPriceNotFound:
		return "price_not_found"
	case ReasonTimeout:
		return "timeout"
	case ReasonParseError:
		return "parse_error"
	case ReasonBrowserError:
		return "browser_error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// MarshalText lets the reason appear by name in JSON output
func (r FailureReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ProductRecord is a product successfully extracted from a rendered page
type ProductRecord struct {
	Key   LookupKey       `json:"ean"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LookupFailure describes an unsuccessful lookup. It carries the
// underlying cause, if any, for logging.
type LookupFailure struct {
	Key    LookupKey
	Reason FailureReason
	Err    error
}

func (f *LookupFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Key, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Key, f.Reason)
}

func (f *LookupFailure) Unwrap() error {
	return f.Err
}

// NewLookupFailure creates a failure for key
func NewLookupFailure(key LookupKey, reason FailureReason, err error) *LookupFailure {
	return &LookupFailure{Key: key, Reason: reason, Err: err}
}

// Result is the outcome of one lookup. Exactly one of Record and Failure is set.
type Result struct {
	Key     LookupKey
	Record  *ProductRecord
	Failure *LookupFailure
}

// Success wraps a record into a Result
func Success(record *ProductRecord) Result {
	return Result{Key: record.Key, Record: record}
}

// Failure wraps a lookup failure into a Result
func Failure(key LookupKey, reason FailureReason, err error) Result {
	return Result{Key: key, Failure: NewLookupFailure(key, reason, err)}
}

// OK reports whether the lookup produced a product
func (r Result) OK() bool {
	return r.Record != nil
}

// Row projects the result onto the three output columns
func (r Result) Row() ResultRow {
	if r.Record == nil {
		return ResultRow{Key: r.Key, Name: NotFound, Price: NotFound}
	}
	return ResultRow{
		Key:   r.Key,
		Name:  r.Record.Name,
		Price: r.Record.Price.StringFixed(2),
	}
}

// ResultRow is one line of the output table
type ResultRow struct {
	Key   LookupKey `json:"ean"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

// Fields returns the row in header order
func (r ResultRow) Fields() []string {
	return []string{string(r.Key), r.Name, r.Price}
}

// BatchResult holds one result per input key, in input order
type BatchResult struct {
	Results []Result
}

// Rows returns the output rows in input order
func (b *BatchResult) Rows() []ResultRow {
	rows := make([]ResultRow, 0, len(b.Results))
	for _, r := range b.Results {
		rows = append(rows, r.Row())
	}
	return rows
}

// Succeeded returns the number of lookups that produced a product
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of lookups that produced a sentinel row
func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// RenderRequest describes one page render on a browser session
type RenderRequest struct {
	URL string

	// ReadySelector must be present before ReadyTimeout elapses,
	// otherwise the render fails with ErrReadinessTimeout.
	ReadySelector string
	ReadyTimeout  time.Duration

	// SettleSelector is waited for at most SettleTimeout after readiness.
	// Not finding it is not an error.
	SettleSelector string
	SettleTimeout  time.Duration
}

// Renderer renders a page and returns its outer HTML
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (string, error)
}

// Session is a long-lived browser session shared by a whole batch
type Session interface {
	Renderer
	Close() error
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
