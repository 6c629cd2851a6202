package domain

// ParamSummary is the stored posterior summary for a single parameter.
// RHat and ESS are set only for runs with more than one chain.
type ParamSummary struct {
	RunID  string
	Name   string
	Ord    int64
	Mean   float64
	SD     float64
	Median float64
	Q025   float64
	Q25    float64
	Q75    float64
	Q975   float64
	RHat   *float64
	ESS    *float64
}

// Interval50 reports the central 50% interval.
func (p ParamSummary) Interval50() (float64, float64) {
	return p.Q25, p.Q75
}

// Interval95 reports the central 95% interval.
func (p ParamSummary) Interval95() (float64, float64) {
	return p.Q025, p.Q975
}
