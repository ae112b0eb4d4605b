package adapters

import (
	"io"
	"testing"

	"ean-price-extractor/internal/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter() *PagueMenosAdapter {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPagueMenosAdapter(types.DefaultConfig(), logger)
}

const productPage = `<html><body>
	<div class="vtex-search-result">
		<h2 class="paguemenos-store-theme-7-x-productName">
			Produto X
		</h2>
		<div class="paguemenos-store-theme-7-x-price">R$` + "\u00a0" + `37,99</div>
	</div>
</body></html>`

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		hasError bool
	}{
		{name: "nbsp after currency", text: "R$\u00a037,99", expected: "37.99"},
		{name: "plain space after currency", text: "R$ 12,50", expected: "12.5"},
		{name: "surrounding whitespace", text: "  R$ 5,00 \n", expected: "5"},
		{name: "no cents", text: "R$ 37", expected: "37"},
		{name: "point decimal", text: "37.99", expected: "37.99"},
		{name: "thousands separator", text: "R$ 1.234,56", expected: "1234.56"},
		{name: "millions", text: "R$\u00a01.234.567,00", expected: "1234567"},
		{name: "thousands without cents", text: "R$ 1.234", expected: "1234"},
		{name: "bad grouping", text: "R$ 12.34,56", hasError: true},
		{name: "negative", text: "R$ -3,00", hasError: true},
		{name: "text", text: "Indisponível", hasError: true},
		{name: "only currency", text: "R$", hasError: true},
		{name: "two prices", text: "R$ 40,00 R$ 37,99", hasError: true},
		{name: "space inside amount", text: "R$ 37 99", hasError: true},
		{name: "old and new price run together", text: "R$ 40 37,99", hasError: true},
		{name: "nbsp inside amount", text: "R$ 37\u00a099", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := ParsePrice(tt.text)
			if tt.hasError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrPriceFormat)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(price), "got %s", price)
		})
	}
}

func TestExtract_Success(t *testing.T) {
	adapter := newTestAdapter()

	result := adapter.ExtractHTML("7908324405125", productPage)

	require.True(t, result.OK(), "unexpected failure: %v", result.Failure)
	assert.Equal(t, types.LookupKey("7908324405125"), result.Record.Key)
	assert.Equal(t, "Produto X", result.Record.Name)
	assert.Equal(t, "37.99", result.Record.Price.String())
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		reason types.FailureReason
	}{
		{
			name:   "not found page",
			html:   `<html><body><h1>Nenhum produto encontrado</h1></body></html>`,
			reason: types.ReasonNameNotFound,
		},
		{
			name:   "name present, price missing",
			html:   `<h2 class="paguemenos-store-theme-7-x-productName">Produto X</h2>`,
			reason: types.ReasonPriceNotFound,
		},
		{
			name: "price missing wins over empty name",
			html: `<h2 class="paguemenos-store-theme-7-x-productName"> </h2>`,
			reason: types.ReasonPriceNotFound,
		},
		{
			name: "empty name",
			html: `<h2 class="paguemenos-store-theme-7-x-productName"> </h2>
				<div class="paguemenos-store-theme-7-x-price">R$ 1,00</div>`,
			reason: types.ReasonParseError,
		},
		{
			name: "price element without amount",
			html: `<h2 class="paguemenos-store-theme-7-x-productName">Produto X</h2>
				<div class="paguemenos-store-theme-7-x-price"></div>`,
			reason: types.ReasonParseError,
		},
		{
			name: "wrong tag for name",
			html: `<h3 class="paguemenos-store-theme-7-x-productName">Produto X</h3>
				<div class="paguemenos-store-theme-7-x-price">R$ 1,00</div>`,
			reason: types.ReasonNameNotFound,
		},
	}

	adapter := newTestAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := adapter.ExtractHTML("1234567890123", tt.html)

			require.False(t, result.OK())
			assert.Equal(t, tt.reason, result.Failure.Reason)
			assert.Equal(t, types.LookupKey("1234567890123"), result.Failure.Key)
		})
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	html := `
		<h2 class="paguemenos-store-theme-7-x-productName">Primeiro</h2>
		<div class="paguemenos-store-theme-7-x-price">R$ 10,00</div>
		<h2 class="paguemenos-store-theme-7-x-productName">Segundo</h2>
		<div class="paguemenos-store-theme-7-x-price">R$ 20,00</div>`

	result := newTestAdapter().ExtractHTML("1", html)

	require.True(t, result.OK())
	assert.Equal(t, "Primeiro", result.Record.Name)
	assert.Equal(t, "10", result.Record.Price.String())
}

func TestExtract_NestedPriceMarkup(t *testing.T) {
	html := `
		<h2 class="paguemenos-store-theme-7-x-productName">Dipirona <b>500mg</b></h2>
		<div class="paguemenos-store-theme-7-x-price"><span>R$</span>&nbsp;<span>8,49</span></div>`

	result := newTestAdapter().ExtractHTML("1", html)

	require.True(t, result.OK())
	assert.Equal(t, "Dipirona 500mg", result.Record.Name)
	assert.Equal(t, "8.49", result.Record.Price.String())
}

func TestExtract_SplitPriceSpansAreNotJoined(t *testing.T) {
	html := `
		<h2 class="paguemenos-store-theme-7-x-productName">Produto X</h2>
		<div class="paguemenos-store-theme-7-x-price"><span>R$ 40</span> <span>37,99</span></div>`

	result := newTestAdapter().ExtractHTML("1", html)

	require.False(t, result.OK())
	assert.Equal(t, types.ReasonParseError, result.Failure.Reason)
	assert.ErrorIs(t, result.Failure, ErrPriceFormat)
}

func TestRenderRequest(t *testing.T) {
	adapter := newTestAdapter()
	assert.Equal(t, "paguemenos.com.br", adapter.GetStoreName())

	req := adapter.RenderRequest("7908324405125")

	assert.Equal(t, "https://www.paguemenos.com.br/busca?termo=7908324405125", req.URL)
	assert.Equal(t, "h2.paguemenos-store-theme-7-x-productName", req.ReadySelector)
	assert.Equal(t, "div.paguemenos-store-theme-7-x-price", req.SettleSelector)
	assert.Equal(t, adapter.Config().ReadyTimeout, req.ReadyTimeout)
	assert.Equal(t, adapter.Config().SettleTimeout, req.SettleTimeout)
}
