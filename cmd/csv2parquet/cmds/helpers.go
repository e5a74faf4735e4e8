package cmds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fraugster/csv2parquet"
)

var acceptableSuffix = map[string]int64{
	"KB":  1024,
	"KiB": 1000,
	"MB":  1024 * 1024,
	"MiB": 1000 * 1000,
	"GB":  1024 * 1024 * 1024,
	"GiB": 1000 * 1000 * 1000,
}

func humanToByte(in string) (int64, error) {
	in = strings.Trim(in, " \n\t")
	if b, err := strconv.ParseInt(in, 10, 0); err == nil {
		return b, nil
	}

	for i := range acceptableSuffix {
		if strings.HasSuffix(in, i) {
			in = strings.TrimSuffix(in, i)
			b, err := strconv.ParseInt(in, 10, 0)
			if err != nil {
				return 0, err
			}
			return b * acceptableSuffix[i], nil
		}
	}

	return 0, fmt.Errorf("invalid format")
}

func parseTypeHints(s string) (map[string]csv2parquet.Type, error) {
	typeMap := make(map[string]csv2parquet.Type)

	if s == "" {
		return typeMap, nil
	}

	for _, hint := range strings.Split(s, ",") {
		hint = strings.TrimSpace(hint)

		hintFields := strings.Split(hint, "=")
		if len(hintFields) != 2 {
			return nil, fmt.Errorf("invalid type hint %q", hint)
		}

		fieldName := strings.TrimSpace(hintFields[0])
		fieldType, err := csv2parquet.ParseType(strings.TrimSpace(hintFields[1]))
		if err != nil {
			return nil, err
		}

		typeMap[fieldName] = fieldType
	}

	return typeMap, nil
}

func typeList() string {
	return strings.Join(csv2parquet.ValidTypes(), ", ")
}
