// Package portfolio loads the holdings and watchlist file the review
// runs over. The file is plain YAML, edited by hand, validated on every
// load so a typo surfaces before a review run starts.
package portfolio

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aristath/portfolio-health/internal/domain"
)

// fileEntry is one YAML row in either section
type fileEntry struct {
	Ticker    string  `yaml:"ticker"`
	Name      string  `yaml:"name"`
	Shares    float64 `yaml:"shares"`
	CostPrice float64 `yaml:"cost_price"`
	Market    string  `yaml:"market"`
}

// file is the on-disk portfolio shape
type file struct {
	Holdings  []fileEntry `yaml:"holdings"`
	Watchlist []fileEntry `yaml:"watchlist"`
}

// Loader reads the portfolio file fresh on every call, so edits are
// picked up by the next review run without a restart.
type Loader struct {
	path string
	log  zerolog.Logger
}

// NewLoader creates a portfolio loader
func NewLoader(path string, log zerolog.Logger) *Loader {
	return &Loader{
		path: path,
		log:  log.With().Str("component", "portfolio_loader").Logger(),
	}
}

// Load reads and validates the portfolio file. Holdings come first in
// the returned sequence, then watchlist candidates with Watch set.
func (l *Loader) Load() ([]domain.HoldingContext, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file: %w", err)
	}

	holdings, err := Parse(f)
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Int("holdings", len(f.Holdings)).
		Int("watchlist", len(f.Watchlist)).
		Msg("Portfolio loaded")

	return holdings, nil
}

// Parse validates the decoded file and builds the holding sequence
func Parse(f file) ([]domain.HoldingContext, error) {
	seen := make(map[string]bool, len(f.Holdings)+len(f.Watchlist))
	holdings := make([]domain.HoldingContext, 0, len(f.Holdings)+len(f.Watchlist))

	for i, e := range f.Holdings {
		h, err := buildEntry(e, false)
		if err != nil {
			return nil, fmt.Errorf("holdings[%d]: %w", i, err)
		}
		if seen[h.Ticker] {
			return nil, fmt.Errorf("holdings[%d]: duplicate ticker %q", i, h.Ticker)
		}
		seen[h.Ticker] = true
		holdings = append(holdings, h)
	}

	for i, e := range f.Watchlist {
		h, err := buildEntry(e, true)
		if err != nil {
			return nil, fmt.Errorf("watchlist[%d]: %w", i, err)
		}
		if seen[h.Ticker] {
			return nil, fmt.Errorf("watchlist[%d]: ticker %q already listed", i, h.Ticker)
		}
		seen[h.Ticker] = true
		holdings = append(holdings, h)
	}

	return holdings, nil
}

func buildEntry(e fileEntry, watch bool) (domain.HoldingContext, error) {
	if e.Ticker == "" {
		return domain.HoldingContext{}, fmt.Errorf("missing ticker")
	}

	market, err := domain.ParseMarket(e.Market)
	if err != nil {
		return domain.HoldingContext{}, fmt.Errorf("ticker %q: %w", e.Ticker, err)
	}

	if e.Shares < 0 {
		return domain.HoldingContext{}, fmt.Errorf("ticker %q: negative shares", e.Ticker)
	}
	if e.CostPrice < 0 {
		return domain.HoldingContext{}, fmt.Errorf("ticker %q: negative cost price", e.Ticker)
	}
	if !watch && e.Shares == 0 {
		return domain.HoldingContext{}, fmt.Errorf("ticker %q: held position with zero shares", e.Ticker)
	}

	return domain.HoldingContext{
		Ticker:    e.Ticker,
		Name:      e.Name,
		Shares:    e.Shares,
		CostPrice: e.CostPrice,
		Market:    market,
		Watch:     watch,
	}, nil
}
