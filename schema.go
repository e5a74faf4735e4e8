package csv2parquet

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
)

// Type is the set of column types a CSV column can be converted to.
type Type int

const (
	TypeString Type = iota
	TypeBoolean
	TypeInt64
	TypeDouble
	TypeTimestamp
	TypeByteArray
)

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInt64:
		return "int64"
	case TypeDouble:
		return "double"
	case TypeTimestamp:
		return "timestamp"
	case TypeByteArray:
		return "byte_array"
	default:
		return "string"
	}
}

var typeNames = map[string]Type{
	"string":     TypeString,
	"boolean":    TypeBoolean,
	"int64":      TypeInt64,
	"int":        TypeInt64,
	"double":     TypeDouble,
	"float":      TypeDouble,
	"timestamp":  TypeTimestamp,
	"byte_array": TypeByteArray,
}

// ParseType resolves a type name as used in type hints.
func ParseType(s string) (Type, error) {
	t, ok := typeNames[strings.ToLower(s)]
	if !ok {
		return TypeString, fmt.Errorf("unsupported type %q; valid types: %s", s, strings.Join(ValidTypes(), ", "))
	}
	return t, nil
}

// ValidTypes returns the sorted list of accepted type hint names.
func ValidTypes() []string {
	l := make([]string, 0, len(typeNames))
	for k := range typeNames {
		l = append(l, k)
	}
	sort.Strings(l)
	return l
}

// Field describes a single column. Identity within a Schema is
// positional; names may collide until Deduplicate has run.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
}

// Schema is an ordered sequence of fields plus opaque key-value
// metadata that is carried through deduplication and projection
// unchanged.
type Schema struct {
	Fields   []Field
	Metadata map[string]string
}

var columnNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_\-\s]`)

// SanitizeColumnName removes every character that is not an ASCII
// letter, digit, underscore, hyphen or whitespace. Permitted
// characters, including leading and trailing whitespace, are kept
// verbatim.
func SanitizeColumnName(name string) string {
	return columnNameRegexp.ReplaceAllString(name, "")
}

// Deduplicate returns a schema in which every field name is non-empty
// and unique. Names are sanitized first. A field whose sanitized name
// is empty gets a generated column_<n> name; a field whose sanitized
// name was already used gets a <name>_<n> suffix. Both draw <n> from
// one counter shared across the whole pass, and only bare sanitized
// names count as used.
func (s Schema) Deduplicate() Schema {
	out := Schema{
		Fields:   make([]Field, 0, len(s.Fields)),
		Metadata: s.Metadata,
	}
	seen := make(map[string]struct{}, len(s.Fields))
	index := 1
	for _, f := range s.Fields {
		name := SanitizeColumnName(f.Name)
		switch {
		case name == "":
			f.Name = fmt.Sprintf("column_%d", index)
			index++
		default:
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				f.Name = name
			} else {
				f.Name = fmt.Sprintf("%s_%d", name, index)
				index++
			}
		}
		out.Fields = append(out.Fields, f)
	}
	return out
}

// Project computes the index projection for the given set of column
// names. Fields are matched by their (post-deduplication) name and the
// result preserves schema order, not the order of names. Requested
// names that don't exist in the schema are ignored; if nothing
// matches, an error of kind Other wrapping ErrNoColumnsSelected is
// returned.
func (s Schema) Project(names []string) ([]int, Schema, error) {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var indices []int
	projected := Schema{Metadata: s.Metadata}
	for i, f := range s.Fields {
		if _, ok := want[f.Name]; ok {
			indices = append(indices, i)
			projected.Fields = append(projected.Fields, f)
		}
	}
	if len(indices) == 0 {
		return nil, Schema{}, newError(KindOther, ErrNoColumnsSelected)
	}
	return indices, projected, nil
}

// ApplyHints returns a copy of the schema with the type of every field
// named in hints replaced. Hint names refer to deduplicated field
// names; unknown names are ignored.
func (s Schema) ApplyHints(hints map[string]Type) Schema {
	if len(hints) == 0 {
		return s
	}
	out := Schema{Fields: make([]Field, len(s.Fields)), Metadata: s.Metadata}
	copy(out.Fields, s.Fields)
	for i, f := range out.Fields {
		if t, ok := hints[f.Name]; ok {
			out.Fields[i].Type = t
		}
	}
	return out
}

// Definition converts the schema into a parquet schema definition.
// Field names must already be deduplicated, otherwise validation
// fails.
func (s Schema) Definition() (*parquetschema.SchemaDefinition, error) {
	def := &parquetschema.SchemaDefinition{
		RootColumn: &parquetschema.ColumnDefinition{
			SchemaElement: &parquet.SchemaElement{
				Name: "schema",
			},
		},
	}

	for _, f := range s.Fields {
		col := columnDefinition(f)
		def.RootColumn.Children = append(def.RootColumn.Children, col)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validation of generated schema failed: %w", err)
	}
	return def, nil
}

func columnDefinition(f Field) *parquetschema.ColumnDefinition {
	col := &parquetschema.ColumnDefinition{
		SchemaElement: &parquet.SchemaElement{
			Name: f.Name,
		},
	}
	if f.Nullable {
		col.SchemaElement.RepetitionType = parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType_OPTIONAL)
	} else {
		col.SchemaElement.RepetitionType = parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType_REQUIRED)
	}

	switch f.Type {
	case TypeBoolean:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_BOOLEAN)
	case TypeInt64:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_INT64)
		col.SchemaElement.LogicalType = parquet.NewLogicalType()
		col.SchemaElement.LogicalType.INTEGER = &parquet.IntType{BitWidth: 64, IsSigned: true}
		col.SchemaElement.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_INT_64)
	case TypeDouble:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_DOUBLE)
	case TypeTimestamp:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_INT64)
		col.SchemaElement.LogicalType = parquet.NewLogicalType()
		col.SchemaElement.LogicalType.TIMESTAMP = &parquet.TimestampType{
			IsAdjustedToUTC: true,
			Unit:            &parquet.TimeUnit{MILLIS: parquet.NewMilliSeconds()},
		}
		col.SchemaElement.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MILLIS)
	case TypeByteArray:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_BYTE_ARRAY)
	default:
		col.SchemaElement.Type = parquet.TypePtr(parquet.Type_BYTE_ARRAY)
		col.SchemaElement.LogicalType = parquet.NewLogicalType()
		col.SchemaElement.LogicalType.STRING = &parquet.StringType{}
		col.SchemaElement.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_UTF8)
	}

	return col
}
