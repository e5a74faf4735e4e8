package csv2parquet

import (
	"os"
	"path/filepath"
	"strings"
)

// Job describes one file conversion. Jobs are created at schedule
// time, never mutated, and consumed by exactly one conversion task.
type Job struct {
	SourcePath string
	// TargetDir overrides the output directory; empty means the
	// parquet file is written next to the source.
	TargetDir    string
	Delimiter    rune
	HasHeader    bool
	SamplingSize int
	// Columns restricts the output to the named (deduplicated)
	// columns. Nil means all columns.
	Columns []string
	// TypeHints force a parquet type for the named columns, past
	// whatever inference decided.
	TypeHints    map[string]Type
	RowGroupSize int64
}

// Outcome is the result of one conversion task. Err is nil on
// success and a *Error otherwise.
type Outcome struct {
	SourcePath string
	Err        error
}

// TargetPath derives the output path for a source CSV: same name with
// the .parquet extension, in targetDir if given, else next to the
// source.
func TargetPath(sourcePath, targetDir string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + ".parquet"
	if targetDir != "" {
		return filepath.Join(targetDir, name)
	}
	return filepath.Join(filepath.Dir(sourcePath), name)
}

// Convert runs one conversion task end to end: derive the target
// path, remove a stale output, infer, deduplicate, optionally
// project, transcode. Every failure mode is normalized into the
// outcome; Convert never panics the caller.
func Convert(job Job) Outcome {
	outcome := Outcome{SourcePath: job.SourcePath}

	target := TargetPath(job.SourcePath, job.TargetDir)
	if err := removeIfExists(target); err != nil {
		outcome.Err = newError(KindFile, err)
		return outcome
	}

	schema, err := InferSchema(job.SourcePath, job.Delimiter, job.HasHeader, job.SamplingSize)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	schema = schema.Deduplicate().ApplyHints(job.TypeHints)

	opt := TranscodeOptions{RowGroupSize: job.RowGroupSize}
	if job.Columns != nil {
		indices, _, err := schema.Project(job.Columns)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		opt.Projection = indices
	}

	if err := Transcode(job.SourcePath, schema, job.Delimiter, job.HasHeader, target, opt); err != nil {
		// don't leave a partially written output behind
		_ = removeIfExists(target)
		outcome.Err = err
	}
	return outcome
}

// removeIfExists deletes the file at path if it is present. A missing
// file is not an error.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
