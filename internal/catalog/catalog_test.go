package catalog

import (
	"errors"
	"math"
	"testing"
)

func TestAwardFor(t *testing.T) {
	higherBands := []Band{
		{Threshold: 0.20, Award: 10},
		{Threshold: 0.15, Award: 8},
		{Threshold: 0.10, Award: 5},
		{Threshold: 0.05, Award: 2},
	}
	lowerBands := []Band{
		{Threshold: 0.3, Award: 8},
		{Threshold: 0.5, Award: 6},
		{Threshold: 1.0, Award: 4},
		{Threshold: 1.5, Award: 2},
	}

	tests := []struct {
		name   string
		value  float64
		dir    Direction
		bands  []Band
		want   float64
		wantOK bool
	}{
		{
			name:   "above the top band",
			value:  0.35,
			dir:    HigherIsBetter,
			bands:  higherBands,
			want:   10,
			wantOK: true,
		},
		{
			name:   "exactly on a threshold",
			value:  0.15,
			dir:    HigherIsBetter,
			bands:  higherBands,
			want:   8,
			wantOK: true,
		},
		{
			name:   "between bands takes the looser one",
			value:  0.12,
			dir:    HigherIsBetter,
			bands:  higherBands,
			want:   5,
			wantOK: true,
		},
		{
			name:   "below every band",
			value:  0.01,
			dir:    HigherIsBetter,
			bands:  higherBands,
			want:   0,
			wantOK: false,
		},
		{
			name:   "lower-is-better best value",
			value:  0.25,
			dir:    LowerIsBetter,
			bands:  lowerBands,
			want:   8,
			wantOK: true,
		},
		{
			name:   "lower-is-better exactly on threshold",
			value:  0.5,
			dir:    LowerIsBetter,
			bands:  lowerBands,
			want:   6,
			wantOK: true,
		},
		{
			name:   "lower-is-better worst value misses all bands",
			value:  2.0,
			dir:    LowerIsBetter,
			bands:  lowerBands,
			want:   0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AwardFor(tt.value, tt.dir, tt.bands)
			if ok != tt.wantOK {
				t.Errorf("AwardFor() ok = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AwardFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A rising raw value must never lose points under higher-is-better, and
// the mirror image must hold for lower-is-better.
func TestAwardForMonotonic(t *testing.T) {
	bands := []Band{
		{Threshold: 0.20, Award: 10},
		{Threshold: 0.15, Award: 8},
		{Threshold: 0.10, Award: 5},
		{Threshold: 0.05, Award: 2},
	}

	prev := -1.0
	for v := 0.0; v <= 0.5; v += 0.005 {
		award, _ := AwardFor(v, HigherIsBetter, bands)
		if award < prev {
			t.Fatalf("award decreased from %v to %v at value %v", prev, award, v)
		}
		prev = award
	}

	lowerBands := []Band{
		{Threshold: 0.3, Award: 8},
		{Threshold: 0.5, Award: 6},
		{Threshold: 1.0, Award: 4},
	}

	prev = math.Inf(1)
	for v := 0.0; v <= 2.0; v += 0.01 {
		award, _ := AwardFor(v, LowerIsBetter, lowerBands)
		if award > prev {
			t.Fatalf("award increased from %v to %v at value %v", prev, award, v)
		}
		prev = award
	}
}

func TestDefaultMetricCatalog(t *testing.T) {
	cat, err := DefaultMetricCatalog()
	if err != nil {
		t.Fatalf("DefaultMetricCatalog() error = %v", err)
	}

	if cat.Size() != MetricCount {
		t.Errorf("Size() = %d, want %d", cat.Size(), MetricCount)
	}

	total := 0.0
	topBandTotal := 0.0
	for _, def := range cat.All() {
		total += def.MaxPoints
		topBandTotal += def.Bands[0].Award

		if def.Bands[0].Award != def.MaxPoints {
			t.Errorf("metric %s: top band awards %v, want max-points %v",
				def.ID, def.Bands[0].Award, def.MaxPoints)
		}
	}

	if math.Abs(total-TotalMaxPoints) > 1e-9 {
		t.Errorf("max-points sum = %v, want %v", total, TotalMaxPoints)
	}
	if math.Abs(topBandTotal-TotalMaxPoints) > 1e-9 {
		t.Errorf("top band sum = %v, want %v", topBandTotal, TotalMaxPoints)
	}

	if _, err := cat.Lookup("return-on-equity"); err != nil {
		t.Errorf("Lookup(return-on-equity) error = %v", err)
	}

	_, err = cat.Lookup("does-not-exist")
	var unknownErr *UnknownMetricError
	if !errors.As(err, &unknownErr) {
		t.Errorf("Lookup(does-not-exist) error = %v, want UnknownMetricError", err)
	}
}

func TestDefaultRiskCatalog(t *testing.T) {
	cat, err := DefaultRiskCatalog()
	if err != nil {
		t.Fatalf("DefaultRiskCatalog() error = %v", err)
	}

	total := 0.0
	for _, def := range cat.All() {
		total += def.Weight

		for _, b := range def.Bands {
			if b.Award < 0 || b.Award > 1 {
				t.Errorf("factor %s: contribution %v outside [0,1]", def.ID, b.Award)
			}
		}
	}

	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("weights sum = %v, want 1.0", total)
	}

	_, err = cat.Lookup("does-not-exist")
	var unknownErr *UnknownFactorError
	if !errors.As(err, &unknownErr) {
		t.Errorf("Lookup(does-not-exist) error = %v, want UnknownFactorError", err)
	}
}

func TestNewMetricCatalogIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		corrupt func(defs []MetricDefinition) []MetricDefinition
	}{
		{
			name: "too few metrics",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				return defs[:MetricCount-1]
			},
		},
		{
			name: "max-points do not sum to 100",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[0].MaxPoints += 1
				return defs
			},
		},
		{
			name: "duplicate metric id",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[1].ID = defs[0].ID
				return defs
			},
		},
		{
			name: "unknown dataset field",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[0].Field = "not-a-field"
				return defs
			},
		},
		{
			name: "unknown direction",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[0].Direction = "sideways"
				return defs
			},
		},
		{
			name: "band award above max-points",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[0].Bands[0].Award = defs[0].MaxPoints + 1
				return defs
			},
		},
		{
			name: "bands not ordered strictest-first",
			corrupt: func(defs []MetricDefinition) []MetricDefinition {
				defs[0].Bands[0], defs[0].Bands[1] = defs[0].Bands[1], defs[0].Bands[0]
				return defs
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetricCatalog(tt.corrupt(defaultMetricDefs()))

			var integrity *CatalogIntegrityError
			if !errors.As(err, &integrity) {
				t.Errorf("NewMetricCatalog() error = %v, want CatalogIntegrityError", err)
			}
		})
	}
}

func TestNewRiskCatalogIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		corrupt func(defs []RiskFactorDefinition) []RiskFactorDefinition
	}{
		{
			name: "no factors",
			corrupt: func(defs []RiskFactorDefinition) []RiskFactorDefinition {
				return nil
			},
		},
		{
			name: "weights do not sum to 1",
			corrupt: func(defs []RiskFactorDefinition) []RiskFactorDefinition {
				defs[0].Weight += 0.1
				return defs
			},
		},
		{
			name: "contribution above 1",
			corrupt: func(defs []RiskFactorDefinition) []RiskFactorDefinition {
				defs[0].Bands[0].Award = 1.5
				return defs
			},
		},
		{
			name: "duplicate factor id",
			corrupt: func(defs []RiskFactorDefinition) []RiskFactorDefinition {
				defs[1].ID = defs[0].ID
				return defs
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRiskCatalog(tt.corrupt(defaultRiskFactorDefs()))

			var integrity *CatalogIntegrityError
			if !errors.As(err, &integrity) {
				t.Errorf("NewRiskCatalog() error = %v, want CatalogIntegrityError", err)
			}
		})
	}
}
