package adapters

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrPriceFormat is returned when price text is not a recognised amount
var ErrPriceFormat = errors.New("unrecognised price format")

const currencySymbol = "R$"

var (
	// 1.234,56 or 1.234
	groupedPricePattern = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d+)?$`)
	// 37,99 or 37
	commaPricePattern = regexp.MustCompile(`^\d+(,\d+)?$`)
	// 37.99
	pointPricePattern = regexp.MustCompile(`^\d+\.\d{1,2}$`)
)

// NormalizePrice turns storefront price text such as "R$ 37,99" into a
// plain decimal literal ("37.99"). Only whitespace around the amount is
// dropped. Thousands separators are accepted only in strict groups of
// three digits.
func NormalizePrice(text string) (string, error) {
	s := strings.ReplaceAll(text, "\u00a0", " ")
	s = strings.Replace(s, currencySymbol, "", 1)
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return "", fmt.Errorf("%w: empty price", ErrPriceFormat)
	case strings.IndexFunc(s, unicode.IsSpace) >= 0:
		return "", fmt.Errorf("%w: whitespace inside amount %q", ErrPriceFormat, text)
	case groupedPricePattern.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1), nil
	case commaPricePattern.MatchString(s):
		return strings.Replace(s, ",", ".", 1), nil
	case pointPricePattern.MatchString(s):
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrPriceFormat, text)
	}
}

// ParsePrice normalizes text and parses it as a non-negative decimal
func ParsePrice(text string) (decimal.Decimal, error) {
	normalized, err := NormalizePrice(text)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPriceFormat, err)
	}
	return price, nil
}
