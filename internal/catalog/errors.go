package catalog

import "fmt"

// CatalogIntegrityError reports a catalog that violates its structural
// invariants. It is fatal at startup: the process must refuse to score
// with a broken catalog.
type CatalogIntegrityError struct {
	Catalog string // "metric" or "risk-factor"
	Reason  string
}

func (e *CatalogIntegrityError) Error() string {
	return fmt.Sprintf("%s catalog integrity: %s", e.Catalog, e.Reason)
}

func integrityError(catalog, format string, args ...any) *CatalogIntegrityError {
	return &CatalogIntegrityError{Catalog: catalog, Reason: fmt.Sprintf(format, args...)}
}

// UnknownMetricError reports a lookup of a metric id that is not in the
// catalog — a programming error, never expected with a valid catalog.
type UnknownMetricError struct {
	ID string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.ID)
}

// UnknownFactorError reports a lookup of a risk factor id that is not in
// the catalog.
type UnknownFactorError struct {
	ID string
}

func (e *UnknownFactorError) Error() string {
	return fmt.Sprintf("unknown risk factor %q", e.ID)
}
