package fundamentals

import (
	"github.com/aristath/portfolio-health/internal/domain"
)

// Quarter is one reported quarter of statement data for a ticker.
// Series consumers expect quarters ordered oldest-first.
type Quarter struct {
	Period      string   `json:"period"` // e.g. "2025Q2"
	Revenue     float64  `json:"revenue"`
	EPS         float64  `json:"eps"`
	GrossMargin float64  `json:"gross_margin"`
	PERatio     *float64 `json:"pe_ratio,omitempty"`
}

// Statements is one fetch of a ticker's raw fundamental data: the latest
// reported quarter plus point-in-time ratios keyed by dataset field.
// Fetch clients normalize into this shape; the builder and snapshot store
// consume it.
type Statements struct {
	Ticker  string
	Period  string
	Ratios  map[domain.Field]float64
	Quarter *Quarter
}
