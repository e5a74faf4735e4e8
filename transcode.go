package csv2parquet

import (
	"encoding/csv"
	"io"
	"os"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquet"
)

// DefaultBatchSize is the number of rows materialized per record
// batch while transcoding. It bounds memory, not the parquet row
// group layout.
const DefaultBatchSize = 4096

// createdBy is the provenance tag embedded in every written file.
const createdBy = "csv2parquet"

// TranscodeOptions tune a single transcoding run. The compression
// codec is fixed to snappy and is deliberately not configurable.
type TranscodeOptions struct {
	// Projection restricts reading to the given field indices of the
	// schema, in schema order. Nil means all columns.
	Projection []int
	// RowGroupSize is the rough maximum row group size in bytes; 0
	// leaves row groups unbounded.
	RowGroupSize int64
	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int
}

// Transcode streams the CSV at sourcePath into a parquet file at
// targetPath using the supplied deduplicated schema. The source is
// opened on its own handle, independent of the one used for
// inference. On failure the target may be left partially written;
// callers are expected to have removed any prior file and to re-run
// from scratch.
func Transcode(sourcePath string, schema Schema, delimiter rune, hasHeader bool, targetPath string, opt TranscodeOptions) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return newError(KindFile, err)
	}
	defer src.Close()

	writeSchema := schema
	if opt.Projection != nil {
		writeSchema = Schema{Metadata: schema.Metadata}
		for _, idx := range opt.Projection {
			writeSchema.Fields = append(writeSchema.Fields, schema.Fields[idx])
		}
	}

	def, err := writeSchema.Definition()
	if err != nil {
		return newError(KindSchema, err)
	}

	reader := newBatchReader(src, schema, delimiter, hasHeader, opt.Projection, opt.BatchSize)

	target, err := os.Create(targetPath)
	if err != nil {
		return newError(KindFile, err)
	}
	defer target.Close()

	writerOptions := []goparquet.FileWriterOption{
		goparquet.WithCreator(createdBy),
		goparquet.WithSchemaDefinition(def),
		goparquet.WithCompressionCodec(parquet.CompressionCodec_SNAPPY),
	}
	if len(writeSchema.Metadata) > 0 {
		writerOptions = append(writerOptions, goparquet.WithMetaData(writeSchema.Metadata))
	}
	if opt.RowGroupSize > 0 {
		writerOptions = append(writerOptions, goparquet.WithMaxRowGroupSize(opt.RowGroupSize))
	}

	w := goparquet.NewFileWriter(target, writerOptions...)

	for {
		batch, err := reader.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for _, row := range batch {
			if err := w.AddData(row); err != nil {
				return errorf(KindCodec, "writing row: %w", err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return errorf(KindCodec, "closing parquet writer: %w", err)
	}
	if err := target.Close(); err != nil {
		return newError(KindFile, err)
	}
	return nil
}

// batchReader pulls bounded batches of rows from a CSV stream,
// converting cells according to a fixed schema. Only projected
// columns are materialized.
type batchReader struct {
	r        *csv.Reader
	schema   Schema
	indices  []int
	handlers []fieldHandler
	size     int
	row      int
	skipHdr  bool
}

func newBatchReader(src io.Reader, schema Schema, delimiter rune, hasHeader bool, projection []int, batchSize int) *batchReader {
	r := csv.NewReader(src)
	r.Comma = delimiter
	r.FieldsPerRecord = len(schema.Fields)
	r.ReuseRecord = true

	indices := projection
	if indices == nil {
		indices = make([]int, len(schema.Fields))
		for i := range indices {
			indices[i] = i
		}
	}

	handlers := make([]fieldHandler, len(indices))
	for i, idx := range indices {
		handlers[i] = handlerFor(schema.Fields[idx].Type)
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &batchReader{
		r:        r,
		schema:   schema,
		indices:  indices,
		handlers: handlers,
		size:     batchSize,
		skipHdr:  hasHeader,
	}
}

// next returns the next record batch, or io.EOF once the stream is
// exhausted. Any error aborts the whole run; there is no row-level
// recovery.
func (b *batchReader) next() ([]map[string]interface{}, error) {
	if b.skipHdr {
		b.skipHdr = false
		if _, err := b.r.Read(); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, errorf(KindCsv, "reading header row: %w", err)
		}
	}

	batch := make([]map[string]interface{}, 0, b.size)
	for len(batch) < b.size {
		rec, err := b.r.Read()
		if err == io.EOF {
			if len(batch) == 0 {
				return nil, io.EOF
			}
			return batch, nil
		}
		if err != nil {
			return nil, errorf(KindCsv, "reading row %d: %w", b.row+1, err)
		}
		b.row++

		row := make(map[string]interface{}, len(b.indices))
		for i, idx := range b.indices {
			field := b.schema.Fields[idx]
			v, err := b.handlers[i](rec[idx])
			if err != nil {
				return nil, errorf(KindCsv, "row %d: converting value %q for column %s (%s): %w", b.row, rec[idx], field.Name, field.Type, err)
			}
			if v == nil {
				continue
			}
			row[field.Name] = v
		}
		batch = append(batch, row)
	}
	return batch, nil
}
