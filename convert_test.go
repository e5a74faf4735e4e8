package csv2parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetPath(t *testing.T) {
	tests := map[string]struct {
		Source   string
		Dir      string
		Expected string
	}{
		"same-dir":     {filepath.Join("data", "in.csv"), "", filepath.Join("data", "in.parquet")},
		"no-dir":       {"in.csv", "", "in.parquet"},
		"upper-ext":    {filepath.Join("data", "IN.CSV"), "", filepath.Join("data", "IN.parquet")},
		"out-dir":      {filepath.Join("data", "in.csv"), "out", filepath.Join("out", "in.parquet")},
		"dotted-name":  {filepath.Join("d", "a.b.csv"), "", filepath.Join("d", "a.b.parquet")},
		"no-extension": {filepath.Join("d", "plain"), "", filepath.Join("d", "plain.parquet")},
	}

	for testName, tt := range tests {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tt.Expected, TargetPath(tt.Source, tt.Dir))
		})
	}
}

func TestConvert(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id,name\n1,alice\n2,bob\n")

	outcome := Convert(Job{
		SourcePath:   source,
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
	})

	require.NoError(t, outcome.Err)
	assert.Equal(t, source, outcome.SourcePath)

	rows := readAllRows(t, TargetPath(source, ""))
	assert.Len(t, rows, 2)
}

func TestConvertReplacesStaleTarget(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id\n1\n")
	target := TargetPath(source, "")
	require.NoError(t, os.WriteFile(target, []byte("stale garbage"), 0644))

	outcome := Convert(Job{SourcePath: source, Delimiter: ',', HasHeader: true, SamplingSize: 10})
	require.NoError(t, outcome.Err)

	rows := readAllRows(t, target)
	assert.Len(t, rows, 1)
}

func TestConvertWithColumns(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id,name,age\n1,alice,30\n2,bob,40\n")

	outcome := Convert(Job{
		SourcePath:   source,
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
		Columns:      []string{"name", "id"},
	})
	require.NoError(t, outcome.Err)

	rows := readAllRows(t, TargetPath(source, ""))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row, 2)
		assert.Contains(t, row, "id")
		assert.Contains(t, row, "name")
	}
}

func TestConvertWithTypeHints(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id,zip\n1,02134\n2,10001\n")

	outcome := Convert(Job{
		SourcePath:   source,
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
		TypeHints:    map[string]Type{"zip": TypeString},
	})
	require.NoError(t, outcome.Err)

	rows := readAllRows(t, TargetPath(source, ""))
	require.Len(t, rows, 2)
	assert.Equal(t, []byte("02134"), rows[0]["zip"])
}

func TestConvertTargetDir(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id\n1\n")
	outDir := t.TempDir()

	outcome := Convert(Job{
		SourcePath:   source,
		TargetDir:    outDir,
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
	})
	require.NoError(t, outcome.Err)

	rows := readAllRows(t, filepath.Join(outDir, "sample.parquet"))
	assert.Len(t, rows, 1)
}

func TestConvertNoColumnsSelected(t *testing.T) {
	source := writeCSV(t, "sample.csv", "id,name\n1,alice\n")
	target := TargetPath(source, "")

	outcome := Convert(Job{
		SourcePath:   source,
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
		Columns:      []string{"does-not-exist"},
	})

	require.Error(t, outcome.Err)
	assert.ErrorIs(t, outcome.Err, ErrNoColumnsSelected)
	assert.Equal(t, KindOther, KindOf(outcome.Err))

	// the failure happened before the target file was opened
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertMissingSource(t *testing.T) {
	outcome := Convert(Job{
		SourcePath:   filepath.Join(t.TempDir(), "nope.csv"),
		Delimiter:    ',',
		HasHeader:    true,
		SamplingSize: 10,
	})

	require.Error(t, outcome.Err)
	assert.Equal(t, KindFile, KindOf(outcome.Err))
}
