// Package csv2parquet converts row-oriented CSV files into parquet
// files, one output per input. It infers a schema from a bounded
// sample of each file, makes the inferred column names unique and
// well-formed, optionally projects a column subset, and then streams
// record batches from the CSV into a snappy-compressed parquet file
// without materializing the whole input in memory. Many files can be
// converted concurrently on a bounded worker pool; per-file failures
// are collected as data and never abort the batch.
package csv2parquet
