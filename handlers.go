package csv2parquet

import (
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// fieldHandler converts one CSV cell into the value the parquet writer
// expects for the declared column type.
type fieldHandler func(string) (interface{}, error)

func handlerFor(t Type) fieldHandler {
	var h fieldHandler
	switch t {
	case TypeBoolean:
		h = booleanHandler
	case TypeInt64:
		h = intHandler
	case TypeDouble:
		h = doubleHandler
	case TypeTimestamp:
		h = timestampHandler
	default:
		h = byteArrayHandler
	}
	return optionalHandler(h)
}

func byteArrayHandler(s string) (interface{}, error) {
	return []byte(s), nil
}

func booleanHandler(s string) (interface{}, error) {
	return strconv.ParseBool(strings.ToLower(s))
}

func intHandler(s string) (interface{}, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func doubleHandler(s string) (interface{}, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// timestampHandler converts to epoch milliseconds, matching the
// TIMESTAMP(MILLIS) logical type emitted for inferred time columns.
func timestampHandler(s string) (interface{}, error) {
	ts, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return ts.UnixMilli(), nil
}

// optionalHandler maps the empty cell to a null value. All columns are
// written as OPTIONAL unless a caller explicitly marks them required.
func optionalHandler(next fieldHandler) fieldHandler {
	return func(s string) (interface{}, error) {
		if s == "" {
			return nil, nil
		}
		return next(s)
	}
}
