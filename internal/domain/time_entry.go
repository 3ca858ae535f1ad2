package domain

// TimeEntry represents one tracked shift in the domain.
// Start and End are kept as the raw ISO-8601 strings supplied by the source so
// that the time of day is read literally, without timezone conversion.
type TimeEntry struct {
	ID                  string
	Start               string
	End                 string
	WorkDuration        *Duration // nil when the source omitted it
	BreakDuration       *Duration // nil when the source omitted it
	ProjectAllocation   []Allocation
	WorkplaceAllocation []Allocation
}

// Duration is an hours/minutes pair where either part may be absent.
type Duration struct {
	Hours   *int
	Minutes *int
}

// NewDuration returns a Duration with both parts present.
func NewDuration(hours, minutes int) *Duration {
	return &Duration{Hours: &hours, Minutes: &minutes}
}

// Allocation assigns a percentage of an entry's worked time to a label.
type Allocation struct {
	Label      string
	Percentage float64
}
