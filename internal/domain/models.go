package domain

import "fmt"

// Market identifies the exchange family a ticker trades on. It decides
// which data-fetch client serves the ticker.
type Market string

const (
	MarketDomestic Market = "domestic" // TWSE-listed
	MarketForeign  Market = "foreign"  // US-listed
)

// ParseMarket converts a configuration string into a Market
func ParseMarket(s string) (Market, error) {
	switch Market(s) {
	case MarketDomestic, MarketForeign:
		return Market(s), nil
	default:
		return "", fmt.Errorf("unknown market %q (want domestic or foreign)", s)
	}
}

// Field names one entry of a ticker's fundamental dataset
type Field string

const (
	FieldReturnOnEquity          Field = "return-on-equity"
	FieldRevenueGrowth3Yr        Field = "revenue-growth-3yr"
	FieldDebtToEquity            Field = "debt-to-equity"
	FieldFCFToNetIncome          Field = "free-cash-flow-to-net-income"
	FieldCurrentRatio            Field = "current-ratio"
	FieldInterestCoverage        Field = "interest-coverage"
	FieldGrossMargin             Field = "gross-margin"
	FieldOperatingMargin         Field = "operating-margin"
	FieldEPSGrowth3Yr            Field = "eps-growth-3yr"
	FieldDividendPayoutRatio     Field = "dividend-payout-ratio"
	FieldAssetTurnover           Field = "asset-turnover"
	FieldPEPercentile            Field = "price-to-earnings-percentile"
	FieldPriceToBook             Field = "price-to-book"
	FieldCustomerConcentration   Field = "customer-concentration-ratio"
	FieldGeographicConcentration Field = "geographic-concentration-ratio"
	FieldMarginVolatility        Field = "margin-volatility"
)

// Fields returns the sixteen dataset fields in canonical order
func Fields() []Field {
	return []Field{
		FieldReturnOnEquity,
		FieldRevenueGrowth3Yr,
		FieldDebtToEquity,
		FieldFCFToNetIncome,
		FieldCurrentRatio,
		FieldInterestCoverage,
		FieldGrossMargin,
		FieldOperatingMargin,
		FieldEPSGrowth3Yr,
		FieldDividendPayoutRatio,
		FieldAssetTurnover,
		FieldPEPercentile,
		FieldPriceToBook,
		FieldCustomerConcentration,
		FieldGeographicConcentration,
		FieldMarginVolatility,
	}
}

// ParseField validates a field name from configuration
func ParseField(s string) (Field, error) {
	for _, f := range Fields() {
		if Field(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown dataset field %q", s)
}

// FundamentalDataset holds one ticker's fundamental data for a single
// review run. A field is absent when the upstream feed could not produce
// it. The dataset is immutable once constructed: the constructor copies
// the input map and no mutating accessors exist.
//
// Ratios and growth rates are decimal fractions (0.15 = 15%); percentile
// fields are in [0,1].
type FundamentalDataset struct {
	values map[Field]float64
}

// NewFundamentalDataset copies values into an immutable dataset
func NewFundamentalDataset(values map[Field]float64) FundamentalDataset {
	copied := make(map[Field]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return FundamentalDataset{values: copied}
}

// Value returns a field's value and whether it is present
func (d FundamentalDataset) Value(f Field) (float64, bool) {
	v, ok := d.values[f]
	return v, ok
}

// Len returns how many fields are present
func (d FundamentalDataset) Len() int {
	return len(d.values)
}

// MissingFields returns the canonical fields absent from the dataset,
// in canonical order
func (d FundamentalDataset) MissingFields() []Field {
	var missing []Field
	for _, f := range Fields() {
		if _, ok := d.values[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// HoldingContext describes one portfolio entry handed to the engine.
// Watch marks a watchlist candidate that is tracked but not held.
// The engine never mutates a HoldingContext.
type HoldingContext struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Shares    float64 `json:"shares"`
	CostPrice float64 `json:"cost_price"`
	Market    Market  `json:"market"`
	Watch     bool    `json:"watch,omitempty"`
}

// Held reports whether the entry is an actual position
func (h HoldingContext) Held() bool {
	return !h.Watch
}
