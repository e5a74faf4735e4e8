package csv2parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllRows(t *testing.T, path string, columns ...string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err, "opening parquet file failed")
	defer f.Close()

	r, err := goparquet.NewFileReader(f, columns...)
	require.NoError(t, err, "creating parquet reader failed")

	var rows []map[string]interface{}
	for {
		row, err := r.NextRow()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestTranscodeRoundTrip(t *testing.T) {
	source := writeCSV(t, "people.csv",
		"id,name,score,active\n"+
			"1,alice,3.5,true\n"+
			"2,bob,4.25,false\n"+
			"3,,1.0,true\n")
	target := filepath.Join(filepath.Dir(source), "people.parquet")

	schema, err := InferSchema(source, ',', true, 10)
	require.NoError(t, err)
	schema = schema.Deduplicate()

	require.NoError(t, Transcode(source, schema, ',', true, target, TranscodeOptions{}))

	rows := readAllRows(t, target)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, []byte("alice"), rows[0]["name"])
	assert.Equal(t, 3.5, rows[0]["score"])
	assert.Equal(t, true, rows[0]["active"])

	assert.Equal(t, int64(2), rows[1]["id"])
	assert.Equal(t, []byte("bob"), rows[1]["name"])

	// empty cell became a null, not an empty string
	_, present := rows[2]["name"]
	assert.False(t, present)
}

func TestTranscodeProjection(t *testing.T) {
	source := writeCSV(t, "wide.csv",
		"a,b,c,d\n"+
			"1,x,2.5,true\n"+
			"2,y,3.5,false\n")
	target := filepath.Join(filepath.Dir(source), "wide.parquet")

	schema, err := InferSchema(source, ',', true, 10)
	require.NoError(t, err)
	schema = schema.Deduplicate()

	indices, _, err := schema.Project([]string{"d", "a"})
	require.NoError(t, err)

	require.NoError(t, Transcode(source, schema, ',', true, target, TranscodeOptions{Projection: indices}))

	rows := readAllRows(t, target)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row, 2)
		assert.Contains(t, row, "a")
		assert.Contains(t, row, "d")
	}
}

func TestTranscodeNoHeader(t *testing.T) {
	source := writeCSV(t, "raw.csv", "1,foo\n2,bar\n3,baz\n")
	target := filepath.Join(filepath.Dir(source), "raw.parquet")

	schema, err := InferSchema(source, ',', false, 10)
	require.NoError(t, err)
	schema = schema.Deduplicate()

	require.NoError(t, Transcode(source, schema, ',', false, target, TranscodeOptions{}))

	rows := readAllRows(t, target)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0]["column_1"])
	assert.Equal(t, []byte("foo"), rows[0]["column_2"])
}

func TestTranscodeSmallBatches(t *testing.T) {
	content := "v\n"
	for i := 0; i < 10; i++ {
		content += "1\n"
	}
	source := writeCSV(t, "batched.csv", content)
	target := filepath.Join(filepath.Dir(source), "batched.parquet")

	schema, err := InferSchema(source, ',', true, 10)
	require.NoError(t, err)
	schema = schema.Deduplicate()

	require.NoError(t, Transcode(source, schema, ',', true, target, TranscodeOptions{BatchSize: 3}))

	rows := readAllRows(t, target)
	assert.Len(t, rows, 10)
}

func TestTranscodeTimestamps(t *testing.T) {
	source := writeCSV(t, "times.csv",
		"seen\n"+
			"1970-01-01T00:00:01Z\n"+
			"2021-04-02T15:04:05Z\n")
	target := filepath.Join(filepath.Dir(source), "times.parquet")

	schema, err := InferSchema(source, ',', true, 10)
	require.NoError(t, err)
	schema = schema.Deduplicate()
	require.Equal(t, TypeTimestamp, schema.Fields[0].Type)

	require.NoError(t, Transcode(source, schema, ',', true, target, TranscodeOptions{}))

	rows := readAllRows(t, target)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1000), rows[0]["seen"])
}

func TestTranscodeMalformedRow(t *testing.T) {
	source := writeCSV(t, "bad.csv",
		"a,b\n"+
			"1,x\n"+
			"2,y,extra\n"+
			"3,z\n")
	target := filepath.Join(filepath.Dir(source), "bad.parquet")

	schema := Schema{Fields: []Field{
		{Name: "a", Type: TypeInt64, Nullable: true},
		{Name: "b", Type: TypeString, Nullable: true},
	}}

	err := Transcode(source, schema, ',', true, target, TranscodeOptions{})
	require.Error(t, err)
	assert.Equal(t, KindCsv, KindOf(err))
}

func TestTranscodeUnparsableValue(t *testing.T) {
	source := writeCSV(t, "badvalue.csv", "n\nnot-a-number\n")
	target := filepath.Join(filepath.Dir(source), "badvalue.parquet")

	schema := Schema{Fields: []Field{{Name: "n", Type: TypeInt64, Nullable: true}}}

	err := Transcode(source, schema, ',', true, target, TranscodeOptions{})
	require.Error(t, err)
	assert.Equal(t, KindCsv, KindOf(err))
}

func TestTranscodeMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Transcode(filepath.Join(dir, "nope.csv"), Schema{Fields: []Field{{Name: "a"}}}, ',', true, filepath.Join(dir, "out.parquet"), TranscodeOptions{})
	require.Error(t, err)
	assert.Equal(t, KindFile, KindOf(err))
}
