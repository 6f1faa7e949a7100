package parser

import "math"

// Well-known MPMS3 column names used by the plotting and summary code.
const (
	FieldColumn       = "Magnetic Field (Oe)"
	TemperatureColumn = "Temperature (K)"
)

// MomentColumnPriority lists the moment measurement channels in preference
// order. The first channel present in a table with at least one finite value
// is the one used for plotting and summaries.
var MomentColumnPriority = []string{
	"DC Moment Free Ctr (emu)",
	"DC Moment Fixed Ctr (emu)",
	"Moment (emu)",
}

// Table holds the [Data] section of a .dat file as numeric columns.
// Every cell is coerced to float64 during parsing; cells that are not
// numeric become NaN, which acts as the missing-value marker throughout.
type Table struct {
	Columns []string             // column names in file order
	Data    map[string][]float64 // column name -> values, length NumRows each
	NumRows int
}

// NewTable allocates a table for the given column names with every cell
// initialized to NaN.
func NewTable(columns []string, numRows int) *Table {
	t := &Table{
		Columns: make([]string, len(columns)),
		Data:    make(map[string][]float64, len(columns)),
		NumRows: numRows,
	}
	copy(t.Columns, columns)
	for _, name := range t.Columns {
		vals := make([]float64, numRows)
		for i := range vals {
			vals[i] = math.NaN()
		}
		t.Data[name] = vals
	}
	return t
}

// Column returns the values of the named column and whether it exists.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.Data[name]
	return vals, ok
}

// HasColumn reports whether the named column exists in the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Data[name]
	return ok
}

// Metadata is the header key/value mapping of a .dat file. Keys preserve
// the order in which they were first seen; setting an existing key updates
// its value in place.
type Metadata struct {
	Keys   []string
	values map[string]string
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// Set stores a key/value pair, appending the key on first sight.
func (m *Metadata) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key, or the empty string when absent.
func (m *Metadata) Get(key string) string {
	return m.values[key]
}

// Has reports whether key is present.
func (m *Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of stored keys.
func (m *Metadata) Len() int {
	return len(m.Keys)
}

// SelectMomentColumn returns the best moment channel of the table, walking
// MomentColumnPriority and picking the first column that exists and has at
// least one non-NaN value. The second return is false when no channel
// qualifies; that is not an error condition.
func SelectMomentColumn(t *Table) (string, bool) {
	for _, name := range MomentColumnPriority {
		vals, ok := t.Column(name)
		if !ok {
			continue
		}
		for _, v := range vals {
			if !math.IsNaN(v) {
				return name, true
			}
		}
	}
	return "", false
}
