package catalog

import (
	"math"

	"github.com/aristath/portfolio-health/internal/domain"
)

// RiskFactorDefinition declares one capital-preservation factor. Direction
// is favorability (which way the raw value is good); the band table is
// authored riskiest-first and awards a risk contribution in [0,1].
type RiskFactorDefinition struct {
	ID        string       `json:"id" yaml:"id"`
	Field     domain.Field `json:"field" yaml:"field"`
	Weight    float64      `json:"weight" yaml:"weight"`
	Direction Direction    `json:"direction" yaml:"direction"`
	Bands     []Band       `json:"bands" yaml:"bands"`
}

// RiskCatalog is the read-only registry of risk factors. Factor weights
// sum to 1.0, which bounds the weighted risk score to [0,1].
type RiskCatalog struct {
	defs []RiskFactorDefinition
	byID map[string]int
}

// NewRiskCatalog validates the definitions and builds the registry.
// Any violation returns a *CatalogIntegrityError.
func NewRiskCatalog(defs []RiskFactorDefinition) (*RiskCatalog, error) {
	if len(defs) == 0 {
		return nil, integrityError("risk-factor", "no factors defined")
	}

	byID := make(map[string]int, len(defs))
	total := 0.0
	for i, def := range defs {
		if def.ID == "" {
			return nil, integrityError("risk-factor", "factor %d has no id", i)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, integrityError("risk-factor", "duplicate factor id %q", def.ID)
		}
		if _, err := domain.ParseField(string(def.Field)); err != nil {
			return nil, integrityError("risk-factor", "factor %q: %v", def.ID, err)
		}
		if !validDirection(def.Direction) {
			return nil, integrityError("risk-factor", "factor %q: unknown direction %q", def.ID, def.Direction)
		}
		if def.Weight <= 0 {
			return nil, integrityError("risk-factor", "factor %q: weight must be positive", def.ID)
		}
		// Risk bands are walked on the unfavorable axis, riskiest first.
		if err := validateBands(def.Direction.Flip(), def.Bands, 1); err != nil {
			return nil, integrityError("risk-factor", "factor %q: %v", def.ID, err)
		}

		byID[def.ID] = i
		total += def.Weight
	}

	if math.Abs(total-1.0) > 1e-9 {
		return nil, integrityError("risk-factor", "weights sum to %v, must be 1.0", total)
	}

	return &RiskCatalog{defs: defs, byID: byID}, nil
}

// Lookup returns the definition for a factor id
func (c *RiskCatalog) Lookup(id string) (RiskFactorDefinition, error) {
	i, ok := c.byID[id]
	if !ok {
		return RiskFactorDefinition{}, &UnknownFactorError{ID: id}
	}
	return c.defs[i], nil
}

// All returns the definitions in catalog order
func (c *RiskCatalog) All() []RiskFactorDefinition {
	return c.defs
}

// Size returns the number of factors
func (c *RiskCatalog) Size() int {
	return len(c.defs)
}
