// Package twse fetches quarterly financial statement data for domestic
// (TWSE-listed) tickers from the exchange's open-data API and
// normalizes it into the statement shape the dataset builder consumes.
package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/internal/modules/fundamentals"
)

const (
	baseURL = "https://openapi.twse.com.tw/v1"

	// Quarterly summary tables for general-industry listed companies.
	incomeStatementPath = "/opendata/t187ap06_L_ci"
	balanceSheetPath    = "/opendata/t187ap07_L_ci"

	// The whole-market tables change once a quarter; one download
	// serves every domestic ticker in a run.
	cacheTTL = time.Hour

	// Polite delay between table downloads.
	fetchDelay = 2 * time.Second
)

// statementRow is one company's row in an open-data table. The API
// returns Chinese column names; values are strings, numbers with
// thousands separators.
type statementRow map[string]string

// Client is a TWSE open-data API client. Table downloads are cached so
// a batch over many domestic tickers hits the exchange twice, not twice
// per ticker.
type Client struct {
	client *http.Client
	log    zerolog.Logger

	mu        sync.Mutex
	income    map[string]statementRow
	balance   map[string]statementRow
	fetchedAt time.Time
}

// NewClient creates a new TWSE client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "twse").Logger(),
	}
}

// FetchStatements returns one ticker's latest reported quarter and
// balance-sheet ratios from the cached whole-market tables.
func (c *Client) FetchStatements(ctx context.Context, ticker string) (fundamentals.Statements, error) {
	stmts := fundamentals.Statements{Ticker: ticker}

	if err := c.ensureTables(ctx); err != nil {
		return stmts, err
	}

	c.mu.Lock()
	income, hasIncome := c.income[ticker]
	balance, hasBalance := c.balance[ticker]
	c.mu.Unlock()

	if !hasIncome {
		return stmts, fmt.Errorf("ticker %s not in TWSE income statement table", ticker)
	}

	quarter, err := buildQuarter(income)
	if err != nil {
		return stmts, err
	}
	stmts.Quarter = quarter
	stmts.Period = quarter.Period

	stmts.Ratios = map[domain.Field]float64{
		domain.FieldGrossMargin: quarter.GrossMargin,
	}
	if hasBalance {
		addBalanceRatios(stmts.Ratios, balance)
	}

	c.log.Info().
		Str("ticker", ticker).
		Str("period", quarter.Period).
		Int("ratios", len(stmts.Ratios)).
		Msg("Fetched statements")

	return stmts, nil
}

// ensureTables downloads and indexes both tables when the cache is
// stale
func (c *Client) ensureTables(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.income != nil && time.Since(c.fetchedAt) < cacheTTL {
		return nil
	}

	income, err := c.fetchTable(ctx, incomeStatementPath)
	if err != nil {
		return fmt.Errorf("failed to fetch income statements: %w", err)
	}

	// Fixed delay between table downloads to stay polite.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(fetchDelay):
	}

	balance, err := c.fetchTable(ctx, balanceSheetPath)
	if err != nil {
		return fmt.Errorf("failed to fetch balance sheets: %w", err)
	}

	c.income = income
	c.balance = balance
	c.fetchedAt = time.Now()

	c.log.Info().
		Int("income_rows", len(income)).
		Int("balance_rows", len(balance)).
		Msg("TWSE tables refreshed")

	return nil
}

func (c *Client) fetchTable(ctx context.Context, path string) (map[string]statementRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TWSE API returned status %d: %s", resp.StatusCode, string(body))
	}

	var rows []statementRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}

	indexed := make(map[string]statementRow, len(rows))
	for _, row := range rows {
		if code := row["公司代號"]; code != "" {
			indexed[code] = row
		}
	}
	return indexed, nil
}

// buildQuarter derives the reported quarter from an income statement
// row
func buildQuarter(row statementRow) (*fundamentals.Quarter, error) {
	revenue, err := parseNumber(row["營業收入"])
	if err != nil {
		return nil, fmt.Errorf("bad revenue value: %w", err)
	}

	quarter := &fundamentals.Quarter{
		Period:  rocPeriod(row["年度"], row["季別"]),
		Revenue: revenue,
	}

	if eps, err := parseNumber(row["基本每股盈餘（元）"]); err == nil {
		quarter.EPS = eps
	}
	if gross, err := parseNumber(row["營業毛利（毛損）"]); err == nil && revenue > 0 {
		quarter.GrossMargin = gross / revenue
	}

	return quarter, nil
}

// addBalanceRatios derives balance-sheet ratios when the inputs parse
func addBalanceRatios(ratios map[domain.Field]float64, row statementRow) {
	currentAssets, errCA := parseNumber(row["流動資產"])
	currentLiabilities, errCL := parseNumber(row["流動負債"])
	if errCA == nil && errCL == nil && currentLiabilities > 0 {
		ratios[domain.FieldCurrentRatio] = currentAssets / currentLiabilities
	}

	liabilities, errL := parseNumber(row["負債總額"])
	equity, errE := parseNumber(row["權益總額"])
	if errL == nil && errE == nil && equity > 0 {
		ratios[domain.FieldDebtToEquity] = liabilities / equity
	}
}

// rocPeriod converts an ROC year and season ("113", "2") to "2024Q2"
func rocPeriod(rocYear, season string) string {
	year, err := strconv.Atoi(strings.TrimSpace(rocYear))
	if err != nil {
		return rocYear + "Q" + season
	}
	return fmt.Sprintf("%dQ%s", year+1911, strings.TrimSpace(season))
}

// parseNumber parses an open-data numeric string ("1,234,567" or
// "-123")
func parseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
