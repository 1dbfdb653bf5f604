// Package catalog defines the declarative metric and risk-factor tables the
// scoring engine runs on. Definitions are data — ordered band tables walked
// strictest-first — never per-metric code branches, so every definition is
// validated and tested the same way.
package catalog

import (
	"fmt"
	"math"
)

// Category groups metrics for reporting
type Category string

const (
	CategoryProfitability     Category = "profitability"
	CategoryGrowth            Category = "growth"
	CategoryFinancialHealth   Category = "financial-health"
	CategoryCashFlowQuality   Category = "cash-flow-quality"
	CategoryValuation         Category = "valuation"
	CategoryEfficiency        Category = "efficiency"
	CategoryShareholderReturn Category = "shareholder-return"
)

// Direction states which way a raw value is favorable
type Direction string

const (
	HigherIsBetter Direction = "higher-is-better"
	LowerIsBetter  Direction = "lower-is-better"
)

// Orient maps a raw value onto the favorability axis so a single banding
// function serves both directions.
func (d Direction) Orient(v float64) float64 {
	if d == LowerIsBetter {
		return -v
	}
	return v
}

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == LowerIsBetter {
		return HigherIsBetter
	}
	return LowerIsBetter
}

// Band awards a value once it reaches Threshold in the banding direction.
// Band lists are authored strictest-first: the first band a value
// satisfies wins, which keeps ordered bands non-overlapping.
type Band struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Award     float64 `json:"award" yaml:"award"`
}

// AwardFor walks bands strictest-first and returns the award of the first
// band the value satisfies under the given direction: value >= threshold
// for higher-is-better, value <= threshold for lower-is-better. ok is
// false when no band matches.
func AwardFor(value float64, dir Direction, bands []Band) (award float64, ok bool) {
	oriented := dir.Orient(value)
	for _, b := range bands {
		if oriented >= dir.Orient(b.Threshold) {
			return b.Award, true
		}
	}
	return 0, false
}

func validDirection(d Direction) bool {
	return d == HigherIsBetter || d == LowerIsBetter
}

func validCategory(c Category) bool {
	switch c {
	case CategoryProfitability, CategoryGrowth, CategoryFinancialHealth,
		CategoryCashFlowQuality, CategoryValuation, CategoryEfficiency,
		CategoryShareholderReturn:
		return true
	}
	return false
}

// validateBands checks the strictest-first ordering and award bounds shared
// by both catalogs. dir is the direction the bands will be walked in.
func validateBands(dir Direction, bands []Band, maxAward float64) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands defined")
	}

	prevThreshold := math.Inf(1)
	prevAward := math.Inf(1)
	for i, b := range bands {
		oriented := dir.Orient(b.Threshold)
		if oriented >= prevThreshold {
			return fmt.Errorf("band %d: thresholds must be strictly ordered strictest-first", i)
		}
		if b.Award < 0 || b.Award > maxAward {
			return fmt.Errorf("band %d: award %v outside [0, %v]", i, b.Award, maxAward)
		}
		if b.Award > prevAward {
			return fmt.Errorf("band %d: awards must not increase as bands loosen", i)
		}
		prevThreshold = oriented
		prevAward = b.Award
	}

	return nil
}
