package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog override. Either section may be omitted to
// keep the compiled defaults for that catalog.
type File struct {
	Metrics     []MetricDefinition     `yaml:"metrics"`
	RiskFactors []RiskFactorDefinition `yaml:"risk_factors"`
}

// Load builds both catalogs from the compiled defaults, overridden by the
// YAML file at path when path is non-empty. Overrides pass the same
// integrity validation as the defaults.
func Load(path string) (*MetricCatalog, *RiskCatalog, error) {
	metricDefs := defaultMetricDefs()
	factorDefs := defaultRiskFactorDefs()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
		}

		var file File
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("failed to parse catalog file: %w", err)
		}

		if len(file.Metrics) > 0 {
			metricDefs = file.Metrics
		}
		if len(file.RiskFactors) > 0 {
			factorDefs = file.RiskFactors
		}
	}

	metrics, err := NewMetricCatalog(metricDefs)
	if err != nil {
		return nil, nil, err
	}

	factors, err := NewRiskCatalog(factorDefs)
	if err != nil {
		return nil, nil, err
	}

	return metrics, factors, nil
}
