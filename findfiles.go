package csv2parquet

import (
	"os"
	"path/filepath"
	"strings"
)

// FindFiles expands the glob pattern and returns every matching
// regular file with a .csv extension (compared case-insensitively).
// The order of results is filesystem-dependent. An invalid pattern is
// reported with kind Pattern; a pattern that matches nothing yields an
// empty, non-error result.
func FindFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errorf(KindPattern, "invalid search pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(m), ".csv") {
			files = append(files, m)
		}
	}
	return files, nil
}
