package templates

type IndexData struct {
	RunCount   int64
	TotalDraws int64
	LastRunAt  string
	Counts     []AnalysisCount
	Runs       []RunSummary
}

type AnalysisCount struct {
	Analysis string
	RunCount int64
}

type RunSummary struct {
	ID        string
	Analysis  string
	Method    string
	Draws     int64
	Headline  string
	CreatedAt string
}

type RunDetail struct {
	ID        string
	Analysis  string
	Dataset   string
	Method    string
	Seed      string
	Chains    int64
	Draws     int64
	Duration  string
	Headline  string
	CreatedAt string
	Params    []ParamRow
	Notes     []string
	// Figures are the SVG artifact names served from the artifact route.
	Figures []string
	// Artifacts are all stored artifact names, for the download list.
	Artifacts []string
}

// ParamRow is one preformatted row of the posterior summary table.
// Diagnostics are empty strings when the run has none.
type ParamRow struct {
	Name   string
	Mean   string
	SD     string
	Median string
	Lo95   string
	Hi95   string
	RHat   string
	ESS    string
}

// ReportData feeds the standalone HTML report. Figures are inlined so
// the file opens from disk without the server.
type ReportData struct {
	Run         RunDetail
	Figures     []Figure
	GeneratedAt string
}

type Figure struct {
	Name string
	SVG  string
}
