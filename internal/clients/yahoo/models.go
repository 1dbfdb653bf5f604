package yahoo

// quoteResponse is the envelope of the Yahoo Finance quote API
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// timeseriesResponse is the envelope of the fundamentals-timeseries API.
// Each result carries one requested series keyed by its type name.
type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"timeseries"`
}

// seriesPoint is one reported value in a fundamentals series
type seriesPoint struct {
	AsOfDate string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}
