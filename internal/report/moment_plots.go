package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/user/mpms_analyzer_go/internal/parser"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Canvas size matches an 8x5 inch figure.
const (
	plotWidth  = vg.Inch * 8
	plotHeight = vg.Inch * 5
)

var seriesColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},  // blue
	color.RGBA{R: 255, G: 127, B: 14, A: 255},  // orange
	color.RGBA{R: 44, G: 160, B: 44, A: 255},   // green
	color.RGBA{R: 214, G: 39, B: 40, A: 255},   // red
	color.RGBA{R: 148, G: 103, B: 189, A: 255}, // purple
	color.RGBA{R: 140, G: 86, B: 75, A: 255},   // brown
}

// MomentPlot is a moment-vs-x chart that one or more data series can be
// added to. Overlay plots are built by adding a labeled series per file to
// the same MomentPlot.
type MomentPlot struct {
	Plot *plot.Plot

	// ZeroLines adds dashed reference lines at x=0 and y=0 before
	// rendering, spanning the range of the added data.
	ZeroLines bool

	seriesCount            int
	xmin, xmax, ymin, ymax float64
	refLinesAdded          bool
}

// NewMomentPlot creates an empty plot with a grid, the given title and
// x-axis label, and "Moment (emu)" on the y-axis.
func NewMomentPlot(title, xLabel string) *MomentPlot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Moment (emu)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	return &MomentPlot{
		Plot: p,
		xmin: math.Inf(1),
		xmax: math.Inf(-1),
		ymin: math.Inf(1),
		ymax: math.Inf(-1),
	}
}

// finitePairs keeps only the index pairs where both x and y are finite.
func finitePairs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AddSeries plots yCol against xCol as a marker-connected line. Rows where
// either value is NaN or infinite are dropped; adding a series with zero
// finite pairs is an error, as is a missing column. A non-empty label adds
// a legend entry.
func (mp *MomentPlot) AddSeries(tbl *parser.Table, xCol, yCol, label string) error {
	xs, ok := tbl.Column(xCol)
	if !ok {
		return fmt.Errorf("column %q not in table, available: %s", xCol, strings.Join(tbl.Columns, ", "))
	}
	ys, ok := tbl.Column(yCol)
	if !ok {
		return fmt.Errorf("column %q not in table, available: %s", yCol, strings.Join(tbl.Columns, ", "))
	}

	pts := finitePairs(xs, ys)
	if len(pts) == 0 {
		return fmt.Errorf("no finite (%s, %s) pairs to plot", xCol, yCol)
	}
	for _, pt := range pts {
		mp.xmin = math.Min(mp.xmin, pt.X)
		mp.xmax = math.Max(mp.xmax, pt.X)
		mp.ymin = math.Min(mp.ymin, pt.Y)
		mp.ymax = math.Max(mp.ymax, pt.Y)
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to create series for %s: %v", yCol, err)
	}
	c := seriesColors[mp.seriesCount%len(seriesColors)]
	line.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	points.Shape = draw.CircleGlyph{}
	points.Color = c
	points.Radius = vg.Points(2)

	mp.Plot.Add(line, points)
	if label != "" {
		mp.Plot.Legend.Add(label, line, points)
	}
	mp.seriesCount++
	return nil
}

// SeriesCount returns the number of series added so far.
func (mp *MomentPlot) SeriesCount() int {
	return mp.seriesCount
}

// addReferenceLines draws dashed gray lines at x=0 and y=0 across the data
// range.
func (mp *MomentPlot) addReferenceLines() {
	if mp.refLinesAdded || mp.seriesCount == 0 {
		return
	}
	mp.refLinesAdded = true

	gray := color.Gray{Y: 128}
	dashes := []vg.Length{vg.Points(4), vg.Points(4)}

	hLine, _ := plotter.NewLine(plotter.XYs{{X: mp.xmin, Y: 0}, {X: mp.xmax, Y: 0}})
	hLine.Color = gray
	hLine.LineStyle.Dashes = dashes
	mp.Plot.Add(hLine)

	vLine, _ := plotter.NewLine(plotter.XYs{{X: 0, Y: mp.ymin}, {X: 0, Y: mp.ymax}})
	vLine.Color = gray
	vLine.LineStyle.Dashes = dashes
	mp.Plot.Add(vLine)
}

// RenderPNG renders the plot to PNG bytes. At least one series must have
// been added.
func (mp *MomentPlot) RenderPNG() ([]byte, error) {
	if mp.seriesCount == 0 {
		return nil, fmt.Errorf("no series added to plot")
	}
	if mp.ZeroLines {
		mp.addReferenceLines()
	}

	writer, err := mp.Plot.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}

// SavePNG renders the plot and writes it to path.
func (mp *MomentPlot) SavePNG(path string) error {
	b, err := mp.RenderPNG()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write plot file: %w", err)
	}
	return nil
}
