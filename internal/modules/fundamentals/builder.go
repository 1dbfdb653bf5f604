// Package fundamentals turns raw statement data into the per-ticker
// dataset the scoring engine consumes, and persists quarterly snapshots
// so series-derived fields survive upstream outages.
package fundamentals

import (
	"github.com/aristath/portfolio-health/internal/domain"
	"github.com/aristath/portfolio-health/pkg/formulas"
	"github.com/rs/zerolog"
)

// Series length floors. Growth rates need more than a year of quarters
// to mean anything; dispersion needs at least a full year.
const (
	minGrowthQuarters     = 5
	minVolatilityQuarters = 4
)

// Builder derives the sixteen dataset fields from point-in-time ratios
// plus the quarterly history accumulated in the snapshot store. Fields
// that cannot be derived are simply left absent — the engine's
// completeness and neutral-risk policies take over downstream.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a dataset builder
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		log: log.With().Str("component", "dataset_builder").Logger(),
	}
}

// Build assembles a ticker's dataset. ratios are passthrough values from
// the fetch client (or the latest snapshot when the fetch failed);
// history is the quarterly series oldest-first. Explicit ratios always
// win over series-derived values.
func (b *Builder) Build(ticker string, ratios map[domain.Field]float64, history []Quarter) domain.FundamentalDataset {
	values := make(map[domain.Field]float64, len(ratios)+4)
	for field, v := range ratios {
		values[field] = v
	}

	b.deriveGrowth(values, history)
	b.deriveVolatility(values, history)
	b.derivePEPercentile(values, history)

	dataset := domain.NewFundamentalDataset(values)
	b.log.Debug().
		Str("ticker", ticker).
		Int("fields", dataset.Len()).
		Int("quarters", len(history)).
		Msg("Dataset built")

	return dataset
}

func (b *Builder) deriveGrowth(values map[domain.Field]float64, history []Quarter) {
	if len(history) < minGrowthQuarters {
		return
	}

	revenues := make([]float64, 0, len(history))
	eps := make([]float64, 0, len(history))
	for _, q := range history {
		revenues = append(revenues, q.Revenue)
		eps = append(eps, q.EPS)
	}

	if _, ok := values[domain.FieldRevenueGrowth3Yr]; !ok {
		if rate := formulas.CAGR(revenues, 4); rate != nil {
			values[domain.FieldRevenueGrowth3Yr] = *rate
		}
	}
	if _, ok := values[domain.FieldEPSGrowth3Yr]; !ok {
		if rate := formulas.CAGR(eps, 4); rate != nil {
			values[domain.FieldEPSGrowth3Yr] = *rate
		}
	}
}

func (b *Builder) deriveVolatility(values map[domain.Field]float64, history []Quarter) {
	if _, ok := values[domain.FieldMarginVolatility]; ok {
		return
	}
	if len(history) < minVolatilityQuarters {
		return
	}

	margins := make([]float64, 0, len(history))
	for _, q := range history {
		margins = append(margins, q.GrossMargin)
	}

	if cv := formulas.CoefficientOfVariation(margins); cv != nil {
		values[domain.FieldMarginVolatility] = *cv
	}
}

func (b *Builder) derivePEPercentile(values map[domain.Field]float64, history []Quarter) {
	if _, ok := values[domain.FieldPEPercentile]; ok {
		return
	}

	var peHistory []float64
	var current *float64
	for _, q := range history {
		if q.PERatio != nil {
			peHistory = append(peHistory, *q.PERatio)
			current = q.PERatio
		}
	}
	if current == nil || len(peHistory) < 2 {
		return
	}

	if p := formulas.PercentileRank(peHistory, *current); p != nil {
		values[domain.FieldPEPercentile] = *p
	}
}
