package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/user/mpms_analyzer_go/internal/parser"
)

// Sheet names of the exported workbook.
const (
	DataSheet     = "Data"
	MetadataSheet = "Metadata"
)

// WriteWorkbook writes the parsed table and header metadata to an .xlsx
// workbook at path. The table goes to the Data sheet as a header row plus
// numeric rows, with non-finite cells left blank; the metadata goes to a
// Metadata sheet as Property/Value columns. The Metadata sheet is omitted
// when the mapping is empty.
func WriteWorkbook(path string, tbl *parser.Table, meta *parser.Metadata) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return fmt.Errorf("failed to rename data sheet: %w", err)
	}

	for c, name := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(DataSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}

	for c, name := range tbl.Columns {
		vals := tbl.Data[name]
		for r, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue // missing values stay blank
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(DataSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write data cell %s: %w", cell, err)
			}
		}
	}

	if meta != nil && meta.Len() > 0 {
		if _, err := f.NewSheet(MetadataSheet); err != nil {
			return fmt.Errorf("failed to create metadata sheet: %w", err)
		}
		if err := f.SetCellValue(MetadataSheet, "A1", "Property"); err != nil {
			return fmt.Errorf("failed to write metadata header: %w", err)
		}
		if err := f.SetCellValue(MetadataSheet, "B1", "Value"); err != nil {
			return fmt.Errorf("failed to write metadata header: %w", err)
		}
		for i, key := range meta.Keys {
			row := i + 2
			if err := f.SetCellValue(MetadataSheet, fmt.Sprintf("A%d", row), key); err != nil {
				return fmt.Errorf("failed to write metadata key %q: %w", key, err)
			}
			if err := f.SetCellValue(MetadataSheet, fmt.Sprintf("B%d", row), meta.Get(key)); err != nil {
				return fmt.Errorf("failed to write metadata value for %q: %w", key, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ConvertFile parses a .dat file and writes it as <stem>.xlsx into outDir,
// returning the output path.
func ConvertFile(datPath, outDir string) (string, error) {
	tbl, meta, err := parser.ParseDatFile(datPath)
	if err != nil {
		return "", err
	}

	base := filepath.Base(datPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outPath := filepath.Join(outDir, stem+".xlsx")

	if err := WriteWorkbook(outPath, tbl, meta); err != nil {
		return "", err
	}
	return outPath, nil
}
