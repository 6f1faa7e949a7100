package analysis

// FileSummary holds the per-file statistics shown by the list output and
// the PDF report. Range and mean fields are NaN when the underlying column
// is absent or has no finite values.
type FileSummary struct {
	Path          string
	Rows          int
	MomentColumn  string // empty when no recognized moment channel
	FiniteMoments int    // finite values in MomentColumn

	MomentMin  float64
	MomentMax  float64
	MomentMean float64

	HasField bool
	FieldMin float64
	FieldMax float64

	HasTemperature bool
	TempMin        float64
	TempMax        float64
}
