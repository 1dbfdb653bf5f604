package fundamentals

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-health/internal/domain"
)

const tolerance = 1e-9

func testBuilder() *Builder {
	return NewBuilder(zerolog.Nop())
}

// growthHistory doubles revenue over twelve quarters (three years):
// CAGR = 2^(1/years) - 1 with years = 11/4.
func growthHistory() []Quarter {
	quarters := make([]Quarter, 12)
	for i := range quarters {
		growth := 1 + float64(i)/11.0 // 1.0 .. 2.0 linearly
		quarters[i] = Quarter{
			Period:      "Q",
			Revenue:     100 * growth,
			EPS:         2 * growth,
			GrossMargin: 0.40,
		}
	}
	return quarters
}

func TestBuildDerivesGrowth(t *testing.T) {
	dataset := testBuilder().Build("2330", nil, growthHistory())

	years := 11.0 / 4.0
	want := math.Pow(2, 1/years) - 1

	got, ok := dataset.Value(domain.FieldRevenueGrowth3Yr)
	if !ok {
		t.Fatal("revenue growth not derived")
	}
	if math.Abs(got-want) > tolerance {
		t.Errorf("revenue growth = %v, want %v", got, want)
	}

	got, ok = dataset.Value(domain.FieldEPSGrowth3Yr)
	if !ok {
		t.Fatal("eps growth not derived")
	}
	if math.Abs(got-want) > tolerance {
		t.Errorf("eps growth = %v, want %v", got, want)
	}
}

func TestBuildDerivesMarginVolatility(t *testing.T) {
	history := []Quarter{
		{Revenue: 100, EPS: 1, GrossMargin: 0.38},
		{Revenue: 100, EPS: 1, GrossMargin: 0.42},
		{Revenue: 100, EPS: 1, GrossMargin: 0.38},
		{Revenue: 100, EPS: 1, GrossMargin: 0.42},
	}

	dataset := testBuilder().Build("2330", nil, history)

	got, ok := dataset.Value(domain.FieldMarginVolatility)
	if !ok {
		t.Fatal("margin volatility not derived")
	}
	// mean 0.40, sample stddev of {.38,.42,.38,.42} = 0.02309...
	mean := 0.40
	stddev := math.Sqrt((4 * 0.02 * 0.02) / 3)
	want := stddev / mean
	if math.Abs(got-want) > tolerance {
		t.Errorf("margin volatility = %v, want %v", got, want)
	}
}

func TestBuildDerivesPEPercentile(t *testing.T) {
	pes := []float64{10, 12, 14, 16, 18}
	history := make([]Quarter, len(pes))
	for i := range pes {
		history[i] = Quarter{Revenue: 100, EPS: 1, GrossMargin: 0.4, PERatio: &pes[i]}
	}

	dataset := testBuilder().Build("2330", nil, history)

	got, ok := dataset.Value(domain.FieldPEPercentile)
	if !ok {
		t.Fatal("pe percentile not derived")
	}
	// current PE 18 is the maximum of its own history
	if math.Abs(got-1.0) > tolerance {
		t.Errorf("pe percentile = %v, want 1.0", got)
	}
}

func TestBuildInsufficientHistoryLeavesFieldsAbsent(t *testing.T) {
	short := []Quarter{
		{Revenue: 100, EPS: 1, GrossMargin: 0.4},
		{Revenue: 110, EPS: 1.1, GrossMargin: 0.4},
	}

	dataset := testBuilder().Build("2330", nil, short)

	for _, field := range []domain.Field{
		domain.FieldRevenueGrowth3Yr,
		domain.FieldEPSGrowth3Yr,
		domain.FieldMarginVolatility,
		domain.FieldPEPercentile,
	} {
		if v, ok := dataset.Value(field); ok {
			t.Errorf("field %s derived from insufficient history: %v", field, v)
		}
	}
}

func TestBuildRatiosWinOverDerivation(t *testing.T) {
	ratios := map[domain.Field]float64{
		domain.FieldRevenueGrowth3Yr: 0.33,
		domain.FieldReturnOnEquity:   0.21,
	}

	dataset := testBuilder().Build("2330", ratios, growthHistory())

	got, ok := dataset.Value(domain.FieldRevenueGrowth3Yr)
	if !ok || math.Abs(got-0.33) > tolerance {
		t.Errorf("explicit ratio overwritten: got %v, want 0.33", got)
	}
	got, ok = dataset.Value(domain.FieldReturnOnEquity)
	if !ok || math.Abs(got-0.21) > tolerance {
		t.Errorf("passthrough ratio lost: got %v, want 0.21", got)
	}
}
