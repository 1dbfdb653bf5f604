package review

import "fmt"

// PerTickerComputationError marks one ticker's evaluation failure. It is
// non-fatal: the aggregator records it in the outcome set and the batch
// continues, so downstream reporting can tell "scored low" from "could
// not be scored".
type PerTickerComputationError struct {
	Ticker string
	Err    error
}

func (e *PerTickerComputationError) Error() string {
	return fmt.Sprintf("ticker %s: %v", e.Ticker, e.Err)
}

func (e *PerTickerComputationError) Unwrap() error {
	return e.Err
}
