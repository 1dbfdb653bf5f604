// Package yahoo fetches fundamental data for foreign (US-listed)
// tickers from the Yahoo Finance quote and fundamentals-timeseries
// APIs, normalized into the statement shape the dataset builder
// consumes.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/fundamentals"
)

const (
	quoteURL      = "https://query1.finance.yahoo.com/v7/finance/quote"
	timeseriesURL = "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"

	maxRetries = 3
)

// Client is a Yahoo Finance API client
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// FetchStatements fetches one ticker's fundamentals: point-in-time
// ratios from the quote API plus the latest reported quarter from the
// timeseries API. Retries with exponential backoff; all retry policy
// lives here, never in the scoring core.
func (c *Client) FetchStatements(ctx context.Context, ticker string) (fundamentals.Statements, error) {
	var stmts fundamentals.Statements
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("ticker", ticker).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Fetch failed, retrying")
			select {
			case <-ctx.Done():
				return stmts, ctx.Err()
			case <-time.After(wait):
			}
		}

		stmts, lastErr = c.fetch(ctx, ticker)
		if lastErr == nil {
			return stmts, nil
		}
	}

	return stmts, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) fetch(ctx context.Context, ticker string) (fundamentals.Statements, error) {
	stmts := fundamentals.Statements{Ticker: ticker}

	info, err := c.getQuoteInfo(ctx, ticker)
	if err != nil {
		return stmts, fmt.Errorf("failed to get quote info: %w", err)
	}

	stmts.Ratios = extractRatios(info)

	quarter, err := c.getLatestQuarter(ctx, ticker, getFloat64(info, "trailingPE"))
	if err != nil {
		// Point ratios alone still make a usable dataset.
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Quarterly series unavailable")
	} else if quarter != nil {
		stmts.Quarter = quarter
		stmts.Period = quarter.Period
	}

	c.log.Info().
		Str("ticker", ticker).
		Int("ratios", len(stmts.Ratios)).
		Bool("quarter", stmts.Quarter != nil).
		Msg("Fetched fundamentals")

	return stmts, nil
}

// extractRatios maps quote fields onto dataset fields. Growth and
// series-derived fields are left to the builder: Yahoo's revenueGrowth
// is year-over-year and must not stand in for the 3-year rates.
func extractRatios(info map[string]interface{}) map[domain.Field]float64 {
	ratios := make(map[domain.Field]float64, 8)

	put := func(field domain.Field, key string, scale float64) {
		if v := getFloat64(info, key); v != nil {
			ratios[field] = *v * scale
		}
	}

	put(domain.FieldReturnOnEquity, "returnOnEquity", 1)
	put(domain.FieldGrossMargin, "grossMargins", 1)
	put(domain.FieldOperatingMargin, "operatingMargins", 1)
	put(domain.FieldCurrentRatio, "currentRatio", 1)
	put(domain.FieldPriceToBook, "priceToBook", 1)
	put(domain.FieldDividendPayoutRatio, "payoutRatio", 1)
	// Yahoo reports debt/equity as a percentage (e.g. 150 for 1.5x).
	put(domain.FieldDebtToEquity, "debtToEquity", 0.01)

	return ratios
}

// getLatestQuarter reads the newest complete quarter from the
// fundamentals-timeseries API: revenue, diluted EPS, gross profit.
func (c *Client) getLatestQuarter(ctx context.Context, ticker string, trailingPE *float64) (*fundamentals.Quarter, error) {
	now := time.Now()
	params := url.Values{}
	params.Add("type", "quarterlyTotalRevenue,quarterlyDilutedEPS,quarterlyGrossProfit")
	params.Add("period1", fmt.Sprintf("%d", now.AddDate(-2, 0, 0).Unix()))
	params.Add("period2", fmt.Sprintf("%d", now.Unix()))

	reqURL := fmt.Sprintf("%s/%s?%s", timeseriesURL, url.PathEscape(ticker), params.Encode())
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result timeseriesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse timeseries response: %w", err)
	}
	if result.Timeseries.Error != nil {
		return nil, fmt.Errorf("timeseries API error: %v", result.Timeseries.Error)
	}

	series := make(map[string]seriesPoint)
	for _, r := range result.Timeseries.Result {
		for _, key := range []string{"quarterlyTotalRevenue", "quarterlyDilutedEPS", "quarterlyGrossProfit"} {
			if raw, ok := r[key]; ok {
				if point := lastPoint(raw); point != nil {
					series[key] = *point
				}
			}
		}
	}

	revenue, ok := series["quarterlyTotalRevenue"]
	if !ok || revenue.ReportedValue.Raw <= 0 {
		return nil, fmt.Errorf("no quarterly revenue reported")
	}

	quarter := &fundamentals.Quarter{
		Period:  periodLabel(revenue.AsOfDate),
		Revenue: revenue.ReportedValue.Raw,
		PERatio: trailingPE,
	}
	if eps, ok := series["quarterlyDilutedEPS"]; ok {
		quarter.EPS = eps.ReportedValue.Raw
	}
	if gross, ok := series["quarterlyGrossProfit"]; ok {
		quarter.GrossMargin = gross.ReportedValue.Raw / revenue.ReportedValue.Raw
	}

	return quarter, nil
}

// lastPoint pulls the newest non-null entry of one timeseries array
func lastPoint(raw interface{}) *seriesPoint {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var points []*seriesPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil
	}

	for i := len(points) - 1; i >= 0; i-- {
		if points[i] != nil && points[i].AsOfDate != "" {
			return points[i]
		}
	}
	return nil
}

// periodLabel converts an asOfDate like "2025-06-30" to "2025Q2"
func periodLabel(asOfDate string) string {
	t, err := time.Parse("2006-01-02", asOfDate)
	if err != nil {
		return asOfDate
	}
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

func (c *Client) getQuoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,trailingPE,priceToBook,grossMargins,"+
		"operatingMargins,returnOnEquity,debtToEquity,currentRatio,payoutRatio,longName,shortName")

	body, err := c.get(ctx, quoteURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// getFloat64 safely extracts a numeric field from a quote map
func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}
