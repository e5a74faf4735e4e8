package csv2parquet

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// InferSchema samples up to samplingSize data rows of the CSV at path
// and infers a per-column type. The header row, if present, supplies
// the raw column names and does not count against the sample. The
// returned schema is not deduplicated.
//
// The file is opened on a fresh handle that is closed before
// returning; callers reading data afterwards must open their own.
func InferSchema(path string, delimiter rune, hasHeader bool, samplingSize int) (Schema, error) {
	if samplingSize < 1 {
		samplingSize = 1
	}

	f, err := os.Open(path)
	if err != nil {
		return Schema{}, newError(KindFile, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter

	var names []string
	if hasHeader {
		rec, err := r.Read()
		if err != nil {
			return Schema{}, errorf(KindSchema, "reading header row: %w", err)
		}
		names = make([]string, len(rec))
		copy(names, rec)
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\uFEFF")
		}
	}

	var types []Type
	var sampled []bool
	for n := 0; n < samplingSize; n++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Schema{}, errorf(KindSchema, "sampling row %d: %w", n+1, err)
		}
		if names == nil {
			names = make([]string, len(rec))
		}
		if types == nil {
			types = make([]Type, len(rec))
			sampled = make([]bool, len(rec))
		}
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			t := classifyValue(v)
			if !sampled[i] {
				types[i] = t
				sampled[i] = true
			} else {
				types[i] = widen(types[i], t)
			}
		}
	}

	if names == nil {
		return Schema{}, errorf(KindSchema, "no rows to infer a schema from in %s", path)
	}
	if types == nil {
		types = make([]Type, len(names))
	}

	schema := Schema{Fields: make([]Field, len(names))}
	for i := range names {
		schema.Fields[i] = Field{Name: names[i], Type: types[i], Nullable: true}
	}
	return schema, nil
}

// classifyValue returns the narrowest type able to represent v.
func classifyValue(v string) Type {
	switch strings.ToLower(v) {
	case "true", "false":
		return TypeBoolean
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return TypeInt64
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return TypeDouble
	}
	if _, err := dateparse.ParseAny(v); err == nil {
		return TypeTimestamp
	}
	return TypeString
}

// widen combines two observed types into one able to represent both.
// Integers widen to doubles; every other mix falls back to string.
func widen(a, b Type) Type {
	if a == b {
		return a
	}
	if (a == TypeInt64 && b == TypeDouble) || (a == TypeDouble && b == TypeInt64) {
		return TypeDouble
	}
	return TypeString
}
