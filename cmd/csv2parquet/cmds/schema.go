package cmds

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fraugster/csv2parquet"
)

func init() {
	schemaCmd.Flags().StringVar(&schemaOpts.Delimiter, "delimiter", ",", "CSV field separator")
	schemaCmd.Flags().BoolVar(&schemaOpts.Header, "header", true, "whether the CSV file has a header row")
	schemaCmd.Flags().IntVar(&schemaOpts.SamplingSize, "sampling-size", 100, "number of rows sampled for schema inference")
	rootCmd.AddCommand(schemaCmd)
}

var schemaOpts struct {
	Delimiter    string
	Header       bool
	SamplingSize int
}

var schemaCmd = &cobra.Command{
	Use:   "schema file-name.csv",
	Short: "Print the parquet schema that would be written for a CSV file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			_ = cmd.Usage()
			os.Exit(1)
		}

		delimiter, err := parseDelimiter(schemaOpts.Delimiter)
		if err != nil {
			log.Fatalf("Invalid CSV field separator %q", schemaOpts.Delimiter)
		}

		schema, err := csv2parquet.InferSchema(args[0], delimiter, schemaOpts.Header, schemaOpts.SamplingSize)
		if err != nil {
			log.Fatalf("Failed to infer the schema: %q", err)
		}

		def, err := schema.Deduplicate().Definition()
		if err != nil {
			log.Fatalf("Failed to build the schema definition: %q", err)
		}

		fmt.Print(def)
	},
}
