package parser

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDat = `[Header]
; MPMS3 data file
INFO, SAMPLE_MATERIAL, YBCO thin film
INFO, SAMPLE_MASS, 12.4
TITLE, M vs H sweep
FILEOPENTIME, 3823371372.00, 01/22/2025, 10:16 am
STARTUPAXIS=X
BYAPP, MPMS3
[Data]
Temperature (K),Magnetic Field (Oe),DC Moment Free Ctr (emu),DC Moment Fixed Ctr (emu)
300.0,-100.0,0.00125,0.00121
300.1,0.0,0.00001,0.00002
299.9,100.0,-0.00130,bad
`

func TestParseDat(t *testing.T) {
	tbl, meta, err := ParseDat(strings.NewReader(sampleDat), "sample.dat")
	require.NoError(t, err)

	// Every INFO and bare key,value line before [Data] lands in metadata.
	assert.Equal(t, "YBCO thin film", meta.Get("SAMPLE_MATERIAL"))
	assert.Equal(t, "12.4", meta.Get("SAMPLE_MASS"))
	assert.Equal(t, "M vs H sweep", meta.Get("TITLE"))
	assert.Equal(t, "3823371372.00, 01/22/2025, 10:16 am", meta.Get("FILEOPENTIME"))
	assert.Equal(t, "MPMS3", meta.Get("BYAPP"))

	// Comment, section marker and "=" lines are not metadata.
	assert.False(t, meta.Has("; MPMS3 data file"))
	assert.False(t, meta.Has("STARTUPAXIS"))

	// Key order follows first appearance.
	assert.Equal(t, []string{"SAMPLE_MATERIAL", "SAMPLE_MASS", "TITLE", "FILEOPENTIME", "BYAPP"}, meta.Keys)

	// Table shape matches the header row of the data block.
	assert.Equal(t, []string{
		"Temperature (K)",
		"Magnetic Field (Oe)",
		"DC Moment Free Ctr (emu)",
		"DC Moment Fixed Ctr (emu)",
	}, tbl.Columns)
	assert.Equal(t, 3, tbl.NumRows)

	field, ok := tbl.Column("Magnetic Field (Oe)")
	require.True(t, ok)
	assert.Equal(t, []float64{-100, 0, 100}, field)

	// Non-numeric cells coerce to NaN.
	fixed, ok := tbl.Column("DC Moment Fixed Ctr (emu)")
	require.True(t, ok)
	assert.True(t, math.IsNaN(fixed[2]))
	assert.Equal(t, 0.00121, fixed[0])
}

func TestParseDatMissingDataSection(t *testing.T) {
	content := "INFO, SAMPLE_MATERIAL, test\nTITLE, no data here\n"
	_, _, err := ParseDat(strings.NewReader(content), "broken.dat")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDataSection)
	assert.Contains(t, err.Error(), "broken.dat")
}

func TestParseDatShortAndLongRows(t *testing.T) {
	content := "[Data]\nA,B,C\n1.0,2.0\n4.0,5.0,6.0,7.0\n"
	tbl, _, err := ParseDat(strings.NewReader(content), "ragged.dat")
	require.NoError(t, err)

	require.Equal(t, 2, tbl.NumRows)
	c, _ := tbl.Column("C")
	assert.True(t, math.IsNaN(c[0]), "short row pads with NaN")
	assert.Equal(t, 6.0, c[1], "long row truncates to header width")
}

func TestParseDatCRLF(t *testing.T) {
	content := strings.ReplaceAll(sampleDat, "\n", "\r\n")
	tbl, meta, err := ParseDat(strings.NewReader(content), "crlf.dat")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows)
	assert.Equal(t, "MPMS3", meta.Get("BYAPP"))
}

func TestParseDatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleDat), 0o644))

	tbl, meta, err := ParseDatFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows)
	assert.Equal(t, 5, meta.Len())
}

func TestParseDatFileTestdata(t *testing.T) {
	tbl, meta, err := ParseDatFile(filepath.Join("testdata", "mvh_sweep.dat"))
	require.NoError(t, err)

	assert.Equal(t, "MvH 300K", meta.Get("TITLE"))
	assert.Equal(t, "YBCO film on STO", meta.Get("SAMPLE_MATERIAL"))
	assert.Equal(t, "zero-field cooled", meta.Get("SAMPLE_COMMENT"))
	assert.False(t, meta.Has("STARTUPAXIS"))

	assert.Len(t, tbl.Columns, 6)
	assert.Equal(t, 5, tbl.NumRows)

	name, ok := SelectMomentColumn(tbl)
	require.True(t, ok)
	assert.Equal(t, "DC Moment Free Ctr (emu)", name)

	// The empty Comment column is all NaN.
	comment, ok := tbl.Column("Comment")
	require.True(t, ok)
	for _, v := range comment {
		assert.True(t, math.IsNaN(v))
	}

	moment, _ := tbl.Column(name)
	assert.InDelta(t, -4.1521e-4, moment[0], 1e-12)
}

func TestSelectMomentColumn(t *testing.T) {
	nan := math.NaN()

	t.Run("first priority wins", func(t *testing.T) {
		tbl := NewTable([]string{"DC Moment Free Ctr (emu)", "Moment (emu)"}, 2)
		tbl.Data["DC Moment Free Ctr (emu)"] = []float64{nan, 0.5}
		tbl.Data["Moment (emu)"] = []float64{1, 2}
		name, ok := SelectMomentColumn(tbl)
		require.True(t, ok)
		assert.Equal(t, "DC Moment Free Ctr (emu)", name)
	})

	t.Run("all-NaN column loses to lower priority", func(t *testing.T) {
		tbl := NewTable([]string{"DC Moment Free Ctr (emu)", "Moment (emu)"}, 2)
		tbl.Data["DC Moment Free Ctr (emu)"] = []float64{nan, nan}
		tbl.Data["Moment (emu)"] = []float64{1, 2}
		name, ok := SelectMomentColumn(tbl)
		require.True(t, ok)
		assert.Equal(t, "Moment (emu)", name)
	})

	t.Run("none found", func(t *testing.T) {
		tbl := NewTable([]string{"Temperature (K)"}, 2)
		name, ok := SelectMomentColumn(tbl)
		assert.False(t, ok)
		assert.Equal(t, "", name)
	})
}

func TestFindDatFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Jan_22_2025")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	for _, name := range []string{
		filepath.Join(dir, "b.dat"),
		filepath.Join(sub, "a.DAT"),
		filepath.Join(sub, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}

	files, err := FindDatFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(sub, "a.DAT"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.dat"), files[1])

	// Single .dat file path.
	files, err = FindDatFiles(filepath.Join(dir, "b.dat"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.dat")}, files)

	// Single non-.dat file path yields nothing.
	files, err = FindDatFiles(filepath.Join(sub, "notes.txt"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
