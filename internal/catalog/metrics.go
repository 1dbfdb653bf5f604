package catalog

import (
	"math"

	"github.com/aristath/portfolio-health/internal/domain"
)

// MetricCount is the number of metrics a valid catalog defines
const MetricCount = 16

// TotalMaxPoints is the exact sum of max-points across the catalog
const TotalMaxPoints = 100.0

// MetricDefinition declares one quantitative metric: which dataset field
// feeds it, how many points it can award, and the band table mapping raw
// values to points.
type MetricDefinition struct {
	ID        string       `json:"id" yaml:"id"`
	Category  Category     `json:"category" yaml:"category"`
	Field     domain.Field `json:"field" yaml:"field"`
	MaxPoints float64      `json:"max_points" yaml:"max_points"`
	Direction Direction    `json:"direction" yaml:"direction"`
	Bands     []Band       `json:"bands" yaml:"bands"`
}

// MetricCatalog is the read-only registry of metric definitions, loaded
// once per process lifetime.
type MetricCatalog struct {
	defs []MetricDefinition
	byID map[string]int
}

// NewMetricCatalog validates the definitions and builds the registry.
// Any violation returns a *CatalogIntegrityError.
func NewMetricCatalog(defs []MetricDefinition) (*MetricCatalog, error) {
	if len(defs) != MetricCount {
		return nil, integrityError("metric", "need exactly %d metrics, got %d", MetricCount, len(defs))
	}

	byID := make(map[string]int, len(defs))
	total := 0.0
	for i, def := range defs {
		if def.ID == "" {
			return nil, integrityError("metric", "metric %d has no id", i)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, integrityError("metric", "duplicate metric id %q", def.ID)
		}
		if _, err := domain.ParseField(string(def.Field)); err != nil {
			return nil, integrityError("metric", "metric %q: %v", def.ID, err)
		}
		if !validCategory(def.Category) {
			return nil, integrityError("metric", "metric %q: unknown category %q", def.ID, def.Category)
		}
		if !validDirection(def.Direction) {
			return nil, integrityError("metric", "metric %q: unknown direction %q", def.ID, def.Direction)
		}
		if def.MaxPoints <= 0 {
			return nil, integrityError("metric", "metric %q: max-points must be positive", def.ID)
		}
		if err := validateBands(def.Direction, def.Bands, def.MaxPoints); err != nil {
			return nil, integrityError("metric", "metric %q: %v", def.ID, err)
		}

		byID[def.ID] = i
		total += def.MaxPoints
	}

	if math.Abs(total-TotalMaxPoints) > 1e-9 {
		return nil, integrityError("metric", "max-points sum to %v, must be exactly %v", total, TotalMaxPoints)
	}

	return &MetricCatalog{defs: defs, byID: byID}, nil
}

// Lookup returns the definition for a metric id
func (c *MetricCatalog) Lookup(id string) (MetricDefinition, error) {
	i, ok := c.byID[id]
	if !ok {
		return MetricDefinition{}, &UnknownMetricError{ID: id}
	}
	return c.defs[i], nil
}

// All returns the definitions in catalog order
func (c *MetricCatalog) All() []MetricDefinition {
	return c.defs
}

// Size returns the number of metrics
func (c *MetricCatalog) Size() int {
	return len(c.defs)
}
