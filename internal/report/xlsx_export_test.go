package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/user/mpms_analyzer_go/internal/parser"
)

func TestWriteWorkbookRoundTrip(t *testing.T) {
	nan := math.NaN()
	tbl := parser.NewTable([]string{parser.TemperatureColumn, "Moment (emu)"}, 3)
	tbl.Data[parser.TemperatureColumn] = []float64{300, 299.5, 298}
	tbl.Data["Moment (emu)"] = []float64{0.5, nan, -0.25}

	meta := parser.NewMetadata()
	meta.Set("SAMPLE_MATERIAL", "YBCO thin film")
	meta.Set("BYAPP", "MPMS3")

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, tbl, meta))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{parser.TemperatureColumn, "Moment (emu)"}, rows[0])
	assert.Equal(t, "300", rows[1][0])
	assert.Equal(t, "0.5", rows[1][1])
	// NaN cell stays blank; excelize drops trailing empty cells.
	if len(rows[2]) > 1 {
		assert.Equal(t, "", rows[2][1])
	}
	assert.Equal(t, "-0.25", rows[3][1])

	metaRows, err := f.GetRows(MetadataSheet)
	require.NoError(t, err)
	require.Len(t, metaRows, 3)
	assert.Equal(t, []string{"Property", "Value"}, metaRows[0])
	assert.Equal(t, []string{"SAMPLE_MATERIAL", "YBCO thin film"}, metaRows[1])
	assert.Equal(t, []string{"BYAPP", "MPMS3"}, metaRows[2])
}

func TestWriteWorkbookEmptyMetadata(t *testing.T) {
	tbl := parser.NewTable([]string{"A"}, 1)
	tbl.Data["A"] = []float64{1}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, tbl, parser.NewMetadata()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.GetRows(MetadataSheet)
	assert.Error(t, err, "Metadata sheet is omitted when the mapping is empty")
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	datPath := filepath.Join(dir, "sweep.dat")
	content := "INFO, SAMPLE_MATERIAL, test\n[Data]\nTemperature (K),Moment (emu)\n300.0,0.5\n"
	require.NoError(t, os.WriteFile(datPath, []byte(content), 0o644))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	outPath, err := ConvertFile(datPath, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "sweep.xlsx"), outPath)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestConvertFileMissingDataSection(t *testing.T) {
	dir := t.TempDir()
	datPath := filepath.Join(dir, "broken.dat")
	require.NoError(t, os.WriteFile(datPath, []byte("INFO, A, b\n"), 0o644))

	_, err := ConvertFile(datPath, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrNoDataSection)
}
