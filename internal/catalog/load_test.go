package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	metrics, factors, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if metrics.Size() != MetricCount {
		t.Errorf("metric catalog size = %d, want %d", metrics.Size(), MetricCount)
	}
	if factors.Size() == 0 {
		t.Error("risk catalog is empty")
	}
}

func TestLoadRiskFactorOverride(t *testing.T) {
	path := writeCatalogFile(t, `
risk_factors:
  - id: concentration
    field: customer-concentration-ratio
    weight: 0.6
    direction: lower-is-better
    bands:
      - { threshold: 0.5, award: 0.9 }
      - { threshold: 0.2, award: 0.4 }
  - id: leverage
    field: debt-to-equity
    weight: 0.4
    direction: lower-is-better
    bands:
      - { threshold: 1.5, award: 0.9 }
      - { threshold: 0.8, award: 0.4 }
`)

	metrics, factors, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Metrics keep defaults, risk factors are replaced.
	if metrics.Size() != MetricCount {
		t.Errorf("metric catalog size = %d, want %d", metrics.Size(), MetricCount)
	}
	if factors.Size() != 2 {
		t.Errorf("risk catalog size = %d, want 2", factors.Size())
	}

	if _, err := factors.Lookup("concentration"); err != nil {
		t.Errorf("Lookup(concentration) error = %v", err)
	}
}

func TestLoadRejectsBrokenWeights(t *testing.T) {
	path := writeCatalogFile(t, `
risk_factors:
  - id: concentration
    field: customer-concentration-ratio
    weight: 0.9
    direction: lower-is-better
    bands:
      - { threshold: 0.5, award: 0.9 }
`)

	_, _, err := Load(path)

	var integrity *CatalogIntegrityError
	if !errors.As(err, &integrity) {
		t.Errorf("Load() error = %v, want CatalogIntegrityError", err)
	}
}

func TestLoadRejectsPartialMetricOverride(t *testing.T) {
	path := writeCatalogFile(t, `
metrics:
  - id: return-on-equity
    category: profitability
    field: return-on-equity
    max_points: 100
    direction: higher-is-better
    bands:
      - { threshold: 0.2, award: 100 }
`)

	_, _, err := Load(path)

	var integrity *CatalogIntegrityError
	if !errors.As(err, &integrity) {
		t.Errorf("Load() error = %v, want CatalogIntegrityError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("Load() with missing file returned no error")
	}
}
