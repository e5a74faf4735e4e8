package cmds

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/fraugster/csv2parquet"
)

func init() {
	convertCmd.Flags().StringVar(&convertOpts.Delimiter, "delimiter", ",", "CSV field separator")
	convertCmd.Flags().BoolVar(&convertOpts.Header, "header", true, "whether the CSV files have a header row")
	convertCmd.Flags().IntVar(&convertOpts.SamplingSize, "sampling-size", 100, "number of rows sampled for schema inference")
	convertCmd.Flags().IntVar(&convertOpts.Workers, "workers", 4, "number of files converted in parallel")
	convertCmd.Flags().StringSliceVar(&convertOpts.Columns, "columns", nil, "restrict output to the named columns")
	convertCmd.Flags().StringVar(&convertOpts.TypeHints, "typehints", "", "comma-separated <column>=<type> overrides; valid types: "+typeList())
	convertCmd.Flags().StringVar(&convertOpts.RowGroupSize, "rowgroup-size", "0", "row group size in bytes (accepts KB/MB/... suffixes); 0 leaves row groups unbounded")
	convertCmd.Flags().StringVar(&convertOpts.OutDir, "out-dir", "", "write parquet files to this directory instead of next to their sources")
	convertCmd.Flags().StringVar(&convertOpts.ConfigFile, "config", "", "TOML file supplying defaults for these flags")
	convertCmd.Flags().BoolVarP(&convertOpts.Verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(convertCmd)
}

var convertOpts struct {
	Delimiter    string
	Header       bool
	SamplingSize int
	Workers      int
	Columns      []string
	TypeHints    string
	RowGroupSize string
	OutDir       string
	ConfigFile   string
	Verbose      bool
}

var convertCmd = &cobra.Command{
	Use:   "convert 'glob-pattern'",
	Short: "Convert every CSV file matching the pattern to parquet",
	Long: `Convert converts every CSV file matching the glob pattern into a
snappy-compressed parquet file next to its source (or under --out-dir).
Files are converted in parallel; a failing file is reported at the end
and never aborts the rest of the batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			_ = cmd.Usage()
			os.Exit(1)
		}

		if convertOpts.ConfigFile != "" {
			if err := applyConfigFile(cmd, convertOpts.ConfigFile); err != nil {
				log.Fatalf("Failed to load config file: %q", err)
			}
		}

		delimiter, err := parseDelimiter(convertOpts.Delimiter)
		if err != nil {
			log.Fatalf("Invalid CSV field separator %q", convertOpts.Delimiter)
		}

		hints, err := parseTypeHints(convertOpts.TypeHints)
		if err != nil {
			log.Fatalf("Parsing type hints failed: %q", err)
		}

		rowGroupSize, err := humanToByte(convertOpts.RowGroupSize)
		if err != nil {
			log.Fatalf("Invalid rowgroup size %q", convertOpts.RowGroupSize)
		}

		if convertOpts.SamplingSize < 1 {
			log.Fatalf("Sampling size must be at least 1")
		}
		if convertOpts.Workers < 1 {
			log.Fatalf("Worker count must be at least 1")
		}

		files, err := csv2parquet.FindFiles(args[0])
		if err != nil {
			log.Fatalf("File discovery failed: %q", err)
		}
		if len(files) == 0 {
			log.Fatalf("No CSV files found for pattern %q", args[0])
		}

		logLevel := slog.LevelWarn
		if convertOpts.Verbose {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

		jobs := make([]csv2parquet.Job, 0, len(files))
		for _, f := range files {
			jobs = append(jobs, csv2parquet.Job{
				SourcePath:   f,
				TargetDir:    convertOpts.OutDir,
				Delimiter:    delimiter,
				HasHeader:    convertOpts.Header,
				SamplingSize: convertOpts.SamplingSize,
				Columns:      columnsOrNil(convertOpts.Columns),
				TypeHints:    hints,
				RowGroupSize: rowGroupSize,
			})
		}

		start := time.Now()
		progress := csv2parquet.NewProgress(len(jobs))
		stop := startProgressLine(progress)
		outcomes := csv2parquet.RunBatch(context.Background(), jobs, convertOpts.Workers, progress, logger)
		stop()

		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "File: %s  Error: %v\n", o.SourcePath, o.Err)
			}
		}
		fmt.Printf("%d succeeded, %d failed, elapsed time %s\n",
			len(outcomes)-failed, failed, time.Since(start).Round(time.Millisecond))
	},
}

func columnsOrNil(cols []string) []string {
	if len(cols) == 0 {
		return nil
	}
	return cols
}

func parseDelimiter(s string) (rune, error) {
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// startProgressLine renders a current/total counter to stderr until
// the returned stop function is called.
func startProgressLine(p *csv2parquet.Progress) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprintf(os.Stderr, "\r%d/%d\n", p.Done(), p.Total())
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%d/%d", p.Done(), p.Total())
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
