package catalog

import "github.com/aristath/portfolio-health/internal/domain"

// DefaultMetricCatalog returns the compiled sixteen-metric catalog.
// Thresholds are decimal fractions (0.15 = 15%); the top band of every
// metric awards its full max-points, so a ticker at every top band scores
// exactly 100.
func DefaultMetricCatalog() (*MetricCatalog, error) {
	return NewMetricCatalog(defaultMetricDefs())
}

// DefaultRiskCatalog returns the compiled risk factor catalog. Weights
// follow the capital-preservation model: concentration and margin
// stability dominate, leverage and liquidity backstop.
func DefaultRiskCatalog() (*RiskCatalog, error) {
	return NewRiskCatalog(defaultRiskFactorDefs())
}

func defaultMetricDefs() []MetricDefinition {
	return []MetricDefinition{
		{
			ID:        "return-on-equity",
			Category:  CategoryProfitability,
			Field:     domain.FieldReturnOnEquity,
			MaxPoints: 10,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.20, Award: 10},
				{Threshold: 0.15, Award: 8},
				{Threshold: 0.10, Award: 5},
				{Threshold: 0.05, Award: 2},
			},
		},
		{
			ID:        "gross-margin",
			Category:  CategoryProfitability,
			Field:     domain.FieldGrossMargin,
			MaxPoints: 6,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.40, Award: 6},
				{Threshold: 0.30, Award: 4.5},
				{Threshold: 0.20, Award: 3},
				{Threshold: 0.10, Award: 1.5},
			},
		},
		{
			ID:        "operating-margin",
			Category:  CategoryProfitability,
			Field:     domain.FieldOperatingMargin,
			MaxPoints: 6,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.25, Award: 6},
				{Threshold: 0.15, Award: 4.5},
				{Threshold: 0.10, Award: 3},
				{Threshold: 0.05, Award: 1.5},
			},
		},
		{
			ID:        "revenue-growth-3yr",
			Category:  CategoryGrowth,
			Field:     domain.FieldRevenueGrowth3Yr,
			MaxPoints: 8,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.15, Award: 8},
				{Threshold: 0.10, Award: 6},
				{Threshold: 0.05, Award: 4},
				{Threshold: 0.00, Award: 2},
			},
		},
		{
			ID:        "eps-growth-3yr",
			Category:  CategoryGrowth,
			Field:     domain.FieldEPSGrowth3Yr,
			MaxPoints: 8,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.15, Award: 8},
				{Threshold: 0.10, Award: 6},
				{Threshold: 0.05, Award: 4},
				{Threshold: 0.00, Award: 2},
			},
		},
		{
			ID:        "debt-to-equity",
			Category:  CategoryFinancialHealth,
			Field:     domain.FieldDebtToEquity,
			MaxPoints: 8,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.3, Award: 8},
				{Threshold: 0.5, Award: 6},
				{Threshold: 1.0, Award: 4},
				{Threshold: 1.5, Award: 2},
			},
		},
		{
			ID:        "current-ratio",
			Category:  CategoryFinancialHealth,
			Field:     domain.FieldCurrentRatio,
			MaxPoints: 5,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 2.0, Award: 5},
				{Threshold: 1.5, Award: 4},
				{Threshold: 1.2, Award: 2.5},
				{Threshold: 1.0, Award: 1},
			},
		},
		{
			ID:        "interest-coverage",
			Category:  CategoryFinancialHealth,
			Field:     domain.FieldInterestCoverage,
			MaxPoints: 6,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 10, Award: 6},
				{Threshold: 5, Award: 4.5},
				{Threshold: 3, Award: 3},
				{Threshold: 1.5, Award: 1.5},
			},
		},
		{
			ID:        "customer-concentration",
			Category:  CategoryFinancialHealth,
			Field:     domain.FieldCustomerConcentration,
			MaxPoints: 4,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.10, Award: 4},
				{Threshold: 0.20, Award: 3},
				{Threshold: 0.35, Award: 2},
				{Threshold: 0.50, Award: 1},
			},
		},
		{
			ID:        "geographic-concentration",
			Category:  CategoryFinancialHealth,
			Field:     domain.FieldGeographicConcentration,
			MaxPoints: 3,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.30, Award: 3},
				{Threshold: 0.50, Award: 2.25},
				{Threshold: 0.70, Award: 1.5},
				{Threshold: 0.85, Award: 0.75},
			},
		},
		{
			ID:        "fcf-to-net-income",
			Category:  CategoryCashFlowQuality,
			Field:     domain.FieldFCFToNetIncome,
			MaxPoints: 10,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 1.0, Award: 10},
				{Threshold: 0.8, Award: 8},
				{Threshold: 0.6, Award: 5},
				{Threshold: 0.4, Award: 2.5},
			},
		},
		{
			ID:        "margin-volatility",
			Category:  CategoryCashFlowQuality,
			Field:     domain.FieldMarginVolatility,
			MaxPoints: 5,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.03, Award: 5},
				{Threshold: 0.06, Award: 4},
				{Threshold: 0.10, Award: 2.5},
				{Threshold: 0.15, Award: 1},
			},
		},
		{
			ID:        "pe-percentile",
			Category:  CategoryValuation,
			Field:     domain.FieldPEPercentile,
			MaxPoints: 7,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.20, Award: 7},
				{Threshold: 0.40, Award: 5},
				{Threshold: 0.60, Award: 3},
				{Threshold: 0.80, Award: 1.5},
			},
		},
		{
			ID:        "price-to-book",
			Category:  CategoryValuation,
			Field:     domain.FieldPriceToBook,
			MaxPoints: 5,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 1.0, Award: 5},
				{Threshold: 2.0, Award: 4},
				{Threshold: 3.5, Award: 2.5},
				{Threshold: 5.0, Award: 1},
			},
		},
		{
			ID:        "asset-turnover",
			Category:  CategoryEfficiency,
			Field:     domain.FieldAssetTurnover,
			MaxPoints: 5,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 1.0, Award: 5},
				{Threshold: 0.7, Award: 4},
				{Threshold: 0.5, Award: 2.5},
				{Threshold: 0.3, Award: 1},
			},
		},
		{
			ID:        "dividend-payout",
			Category:  CategoryShareholderReturn,
			Field:     domain.FieldDividendPayoutRatio,
			MaxPoints: 4,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.50, Award: 4},
				{Threshold: 0.35, Award: 3},
				{Threshold: 0.20, Award: 2},
				{Threshold: 0.05, Award: 1},
			},
		},
	}
}

func defaultRiskFactorDefs() []RiskFactorDefinition {
	return []RiskFactorDefinition{
		{
			ID:        "customer-concentration",
			Field:     domain.FieldCustomerConcentration,
			Weight:    0.30,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.50, Award: 0.95},
				{Threshold: 0.35, Award: 0.75},
				{Threshold: 0.20, Award: 0.50},
				{Threshold: 0.10, Award: 0.25},
			},
		},
		{
			ID:        "margin-stability",
			Field:     domain.FieldMarginVolatility,
			Weight:    0.25,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.15, Award: 0.90},
				{Threshold: 0.10, Award: 0.70},
				{Threshold: 0.06, Award: 0.45},
				{Threshold: 0.03, Award: 0.20},
			},
		},
		{
			ID:        "geographic-concentration",
			Field:     domain.FieldGeographicConcentration,
			Weight:    0.20,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 0.85, Award: 0.90},
				{Threshold: 0.70, Award: 0.70},
				{Threshold: 0.50, Award: 0.45},
				{Threshold: 0.30, Award: 0.25},
			},
		},
		{
			ID:        "leverage",
			Field:     domain.FieldDebtToEquity,
			Weight:    0.15,
			Direction: LowerIsBetter,
			Bands: []Band{
				{Threshold: 2.0, Award: 0.95},
				{Threshold: 1.5, Award: 0.75},
				{Threshold: 1.0, Award: 0.50},
				{Threshold: 0.5, Award: 0.25},
			},
		},
		{
			ID:        "liquidity",
			Field:     domain.FieldCurrentRatio,
			Weight:    0.10,
			Direction: HigherIsBetter,
			Bands: []Band{
				{Threshold: 0.8, Award: 0.95},
				{Threshold: 1.0, Award: 0.75},
				{Threshold: 1.2, Award: 0.50},
				{Threshold: 1.5, Award: 0.25},
			},
		},
	}
}
