package scoring

// MetricPoints is one breakdown entry: the points a metric awarded, or a
// missing marker when the dataset had no value for its field.
type MetricPoints struct {
	Points  float64 `json:"points"`
	Missing bool    `json:"missing,omitempty"`
}

// ScoreResult is the composite quality score for one ticker. It is a
// value object: created once per run, never mutated.
type ScoreResult struct {
	Ticker       string                  `json:"ticker"`
	TotalScore   float64                 `json:"totalScore"`
	Completeness float64                 `json:"completeness"`
	Breakdown    map[string]MetricPoints `json:"breakdown"`
}
