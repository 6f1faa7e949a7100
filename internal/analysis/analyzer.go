package analysis

import (
	"math"

	"github.com/user/mpms_analyzer_go/internal/parser"
)

// finiteStats computes min, max, mean and count over the finite values of
// data. All three statistics are NaN when no finite value exists.
func finiteStats(data []float64) (minVal, maxVal, mean float64, count int) {
	minVal, maxVal, mean = math.NaN(), math.NaN(), math.NaN()
	sum := 0.0
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if count == 0 || v < minVal {
			minVal = v
		}
		if count == 0 || v > maxVal {
			maxVal = v
		}
		sum += v
		count++
	}
	if count > 0 {
		mean = sum / float64(count)
	}
	return minVal, maxVal, mean, count
}

// Summarize derives the per-file statistics for a parsed table: row count,
// the selected moment channel with its range and mean, and the field and
// temperature ranges when those columns are present.
func Summarize(path string, tbl *parser.Table) *FileSummary {
	s := &FileSummary{
		Path:       path,
		Rows:       tbl.NumRows,
		MomentMin:  math.NaN(),
		MomentMax:  math.NaN(),
		MomentMean: math.NaN(),
		FieldMin:   math.NaN(),
		FieldMax:   math.NaN(),
		TempMin:    math.NaN(),
		TempMax:    math.NaN(),
	}

	if name, ok := parser.SelectMomentColumn(tbl); ok {
		s.MomentColumn = name
		vals, _ := tbl.Column(name)
		s.MomentMin, s.MomentMax, s.MomentMean, s.FiniteMoments = finiteStats(vals)
	}

	if vals, ok := tbl.Column(parser.FieldColumn); ok {
		var count int
		s.FieldMin, s.FieldMax, _, count = finiteStats(vals)
		s.HasField = count > 0
	}

	if vals, ok := tbl.Column(parser.TemperatureColumn); ok {
		var count int
		s.TempMin, s.TempMax, _, count = finiteStats(vals)
		s.HasTemperature = count > 0
	}

	return s
}
