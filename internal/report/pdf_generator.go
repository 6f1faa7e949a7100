package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/mpms_analyzer_go/internal/analysis"
	"github.com/user/mpms_analyzer_go/internal/parser"
)

const (
	inchToMm         = 25.4
	pdfPageWidth     = 8.5 * inchToMm // Letter portrait
	pdfPageHeight    = 11 * inchToMm
	pdfMargin        = 0.5 * inchToMm
	pdfContentWidth  = pdfPageWidth - (2 * pdfMargin)
	pdfUsableHeight  = pdfPageHeight - (2 * pdfMargin)
	metadataRowLimit = 12 // metadata rows shown per file before truncation
)

// ReportEntry is one input file of the PDF report.
type ReportEntry struct {
	Name    string
	Summary *analysis.FileSummary
	Meta    *parser.Metadata
	PlotPNG []byte // nil when the file had nothing to plot
}

// pdfStyler holds reusable styling and Y-position state for PDF generation.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6, // mm
		currentY:   pdfMargin,
	}
	s.styles["h1"] = func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(50, 50, 50)
	}
	return s
}

func (s *pdfStyler) applyStyle(name string) {
	if fn, ok := s.styles[name]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > pdfUsableHeight {
		s.pdf.AddPage()
		s.currentY = pdfMargin
	}
}

func (s *pdfStyler) writeParagraph(text, styleName, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable renders a two-column bordered table with a header row.
func (s *pdfStyler) writeTable(headers []string, rows [][]string, colWidthsRel []float64) {
	colWidths := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidths[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))

	x := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(x, s.currentY)
		s.pdf.CellFormat(colWidths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	s.currentY += s.lineHeight

	s.applyStyle("tableCell")
	for _, row := range rows {
		s.checkAddPage(s.lineHeight)
		x = pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(colWidths[i], s.lineHeight, cell, "1", 0, "L", false, 0, "")
			x += colWidths[i]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64) {
	s.pdf.RegisterImageOptionsReader(imageName,
		gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))
	if width > pdfContentWidth {
		height *= pdfContentWidth / width
		width = pdfContentWidth
	}
	s.checkAddPage(height)
	s.pdf.ImageOptions(imageName, pdfMargin, s.currentY, width, height, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height
	s.addSpacer(2)
}

func formatRange(lo, hi float64, unit string) string {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f .. %.2f %s", lo, hi, unit)
}

// BuildPDFReport writes a summary report covering the given files: one
// section per file with its statistics, a metadata excerpt and the moment
// plot when available.
func BuildPDFReport(path string, entries []ReportEntry) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	styler.writeParagraph(fmt.Sprintf("MPMS3 Measurement Summary (%d files)", len(entries)), "h1", "C")
	styler.addSpacer(4)

	if len(entries) == 0 {
		styler.writeParagraph("No files to report.", "normal", "L")
		return pdf.OutputFileAndClose(path)
	}

	for i, entry := range entries {
		if i > 0 {
			pdf.AddPage()
			styler.currentY = pdfMargin
		}
		styler.writeParagraph(entry.Name, "h2", "L")

		sum := entry.Summary
		momentCol := sum.MomentColumn
		if momentCol == "" {
			momentCol = "(none)"
		}
		rows := [][]string{
			{"Rows", fmt.Sprintf("%d", sum.Rows)},
			{"Moment column", momentCol},
			{"Finite moment values", fmt.Sprintf("%d", sum.FiniteMoments)},
			{"Moment range", formatRange(sum.MomentMin, sum.MomentMax, "emu")},
			{"Field range", formatRange(sum.FieldMin, sum.FieldMax, "Oe")},
			{"Temperature range", formatRange(sum.TempMin, sum.TempMax, "K")},
		}
		styler.writeTable([]string{"Property", "Value"}, rows, []float64{0.35, 0.65})
		styler.addSpacer(4)

		if entry.Meta != nil && entry.Meta.Len() > 0 {
			styler.writeParagraph("Header metadata", "normal", "L")
			metaRows := make([][]string, 0, metadataRowLimit)
			for _, key := range entry.Meta.Keys {
				if len(metaRows) >= metadataRowLimit {
					metaRows = append(metaRows, []string{"...", fmt.Sprintf("%d more entries", entry.Meta.Len()-metadataRowLimit)})
					break
				}
				metaRows = append(metaRows, []string{key, entry.Meta.Get(key)})
			}
			styler.writeTable([]string{"Property", "Value"}, metaRows, []float64{0.35, 0.65})
			styler.addSpacer(4)
		}

		if len(entry.PlotPNG) > 0 {
			imgWidth := pdfContentWidth * 0.95
			imgHeight := imgWidth * (5.0 / 8.0)
			styler.addImage(entry.PlotPNG, fmt.Sprintf("plot_%d", i), imgWidth, imgHeight)
		} else {
			styler.writeParagraph("No plottable moment data.", "normal", "L")
		}
	}

	return pdf.OutputFileAndClose(path)
}
