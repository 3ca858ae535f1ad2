package domain

// CategoryTotals maps a category label to accumulated worked minutes.
type CategoryTotals map[string]float64

// Sum returns the total minutes across all labels.
func (t CategoryTotals) Sum() float64 {
	var s float64
	for _, v := range t {
		s += v
	}
	return s
}

// Averages holds per-batch means, all expressed in whole minutes.
// StartTime and EndTime are offsets from midnight.
type Averages struct {
	StartTime     int
	EndTime       int
	BreakDuration int
	WorkDuration  int
}

// InvalidTimestamp records a start or end value whose time of day could not be
// read. Such values contribute 0 minutes to the averages.
type InvalidTimestamp struct {
	Index int
	ID    string
	Field string // "start" or "end"
	Value string
}

// Diagnostics collects non-fatal findings from one aggregation run.
type Diagnostics struct {
	InvalidTimestamps []InvalidTimestamp
}

// AggregationResult is the engine output for one batch.
type AggregationResult struct {
	ProjectTotals   CategoryTotals
	WorkplaceTotals CategoryTotals
	Averages        Averages
	EntryCount      int
	Diagnostics     Diagnostics
}
