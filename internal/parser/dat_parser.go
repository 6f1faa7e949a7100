package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrNoDataSection is returned when a .dat file has no [Data] marker line.
var ErrNoDataSection = errors.New("no [Data] section found")

// dataMarker is the exact line separating the header from the data table.
const dataMarker = "[Data]"

// ParseDatFile reads an MPMS3 .dat file and splits it into the numeric data
// table and the header metadata.
func ParseDatFile(path string) (*Table, *Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dat file: %w", err)
	}
	defer f.Close()
	return ParseDat(f, path)
}

// ParseDat parses MPMS3 .dat content from r. The name is used only in error
// messages.
//
// Lines before the [Data] marker are classified, in order:
//  1. the exact marker line ends header scanning;
//  2. lines starting with "INFO," split into at most three comma-separated
//     fields, with field 2 as key and field 3 as value;
//  3. lines that are not comments (";" prefix), contain a comma, contain no
//     "=" and do not open a section ("[" prefix) split on the first comma
//     into key and value.
//
// Everything else is ignored. Lines containing "=" are deliberately skipped
// even when they look like key/value pairs; settings-style header lines are
// not metadata.
func ParseDat(r io.Reader, name string) (*Table, *Metadata, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	lines := strings.Split(string(raw), "\n")
	meta := NewMetadata()
	dataStart := -1

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == dataMarker {
			dataStart = i + 1
			break
		}
		if strings.HasPrefix(line, "INFO,") {
			parts := strings.SplitN(line, ",", 3)
			if len(parts) == 3 {
				meta.Set(strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
			}
		} else if !strings.HasPrefix(line, ";") && strings.Contains(line, ",") &&
			!strings.Contains(line, "=") && !strings.HasPrefix(line, "[") {
			kv := strings.SplitN(line, ",", 2)
			if len(kv) == 2 {
				meta.Set(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
			}
		}
	}

	if dataStart < 0 {
		return nil, nil, fmt.Errorf("%w in %s", ErrNoDataSection, name)
	}

	tbl, err := readDataBlock(lines[dataStart:])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse [Data] block of %s: %w", name, err)
	}
	return tbl, meta, nil
}

// readDataBlock decodes the lines after [Data] as a CSV table. The first
// record names the columns; every cell is coerced to float64 with
// unparseable cells left as NaN. Short records are padded with NaN and long
// records truncated to the header width.
func readDataBlock(lines []string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read data rows: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("data section is empty")
	}

	columns := records[0]
	tbl := NewTable(columns, len(records)-1)
	for r, record := range records[1:] {
		for c, name := range columns {
			if c >= len(record) {
				break
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
			if err != nil {
				v = math.NaN()
			}
			tbl.Data[name][r] = v
		}
	}
	return tbl, nil
}
