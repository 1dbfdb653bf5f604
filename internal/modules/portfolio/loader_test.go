package portfolio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-health/internal/domain"
)

const validPortfolio = `
holdings:
  - ticker: "2330"
    name: "TSMC"
    shares: 1000
    cost_price: 520.5
    market: domestic
  - ticker: "AAPL"
    name: "Apple"
    shares: 50
    cost_price: 180
    market: foreign
watchlist:
  - ticker: "MSFT"
    name: "Microsoft"
    market: foreign
`

func writePortfolio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidPortfolio(t *testing.T) {
	loader := NewLoader(writePortfolio(t, validPortfolio), zerolog.Nop())

	holdings, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, holdings, 3)

	assert.Equal(t, "2330", holdings[0].Ticker)
	assert.Equal(t, domain.MarketDomestic, holdings[0].Market)
	assert.True(t, holdings[0].Held())
	assert.Equal(t, 1000.0, holdings[0].Shares)

	assert.Equal(t, "MSFT", holdings[2].Ticker)
	assert.True(t, holdings[2].Watch)
	assert.False(t, holdings[2].Held())
}

func TestLoadRejectsUnknownMarket(t *testing.T) {
	loader := NewLoader(writePortfolio(t, `
holdings:
  - ticker: "2330"
    shares: 100
    cost_price: 500
    market: crypto
`), zerolog.Nop())

	_, err := loader.Load()
	assert.ErrorContains(t, err, "unknown market")
}

func TestLoadRejectsNegativeShares(t *testing.T) {
	loader := NewLoader(writePortfolio(t, `
holdings:
  - ticker: "2330"
    shares: -10
    cost_price: 500
    market: domestic
`), zerolog.Nop())

	_, err := loader.Load()
	assert.ErrorContains(t, err, "negative shares")
}

func TestLoadRejectsZeroShareHolding(t *testing.T) {
	loader := NewLoader(writePortfolio(t, `
holdings:
  - ticker: "2330"
    shares: 0
    cost_price: 500
    market: domestic
`), zerolog.Nop())

	_, err := loader.Load()
	assert.ErrorContains(t, err, "zero shares")
}

func TestLoadRejectsDuplicateTicker(t *testing.T) {
	loader := NewLoader(writePortfolio(t, `
holdings:
  - ticker: "2330"
    shares: 100
    cost_price: 500
    market: domestic
watchlist:
  - ticker: "2330"
    market: domestic
`), zerolog.Nop())

	_, err := loader.Load()
	assert.ErrorContains(t, err, "already listed")
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), zerolog.Nop())

	_, err := loader.Load()
	assert.Error(t, err)
}
