package cmds

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fraugster/csv2parquet"
	"github.com/fraugster/csv2parquet/picker"
)

func init() {
	pickCmd.Flags().StringVar(&pickOpts.Delimiter, "delimiter", ",", "CSV field separator")
	pickCmd.Flags().BoolVar(&pickOpts.Header, "header", true, "whether the CSV files have a header row")
	pickCmd.Flags().IntVar(&pickOpts.SamplingSize, "sampling-size", 100, "number of rows sampled for schema inference")
	rootCmd.AddCommand(pickCmd)
}

var pickOpts struct {
	Delimiter    string
	Header       bool
	SamplingSize int
}

var pickCmd = &cobra.Command{
	Use:   "pick 'glob-pattern'",
	Short: "Browse discovered CSV files, toggle columns and export one file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			_ = cmd.Usage()
			os.Exit(1)
		}

		delimiter, err := parseDelimiter(pickOpts.Delimiter)
		if err != nil {
			log.Fatalf("Invalid CSV field separator %q", pickOpts.Delimiter)
		}

		files, err := csv2parquet.FindFiles(args[0])
		if err != nil {
			log.Fatalf("File discovery failed: %q", err)
		}
		if len(files) == 0 {
			log.Fatalf("No CSV files found for pattern %q", args[0])
		}

		app := picker.NewApp(files, func(path string) (csv2parquet.Schema, error) {
			schema, err := csv2parquet.InferSchema(path, delimiter, pickOpts.Header, pickOpts.SamplingSize)
			if err != nil {
				return csv2parquet.Schema{}, err
			}
			return schema.Deduplicate(), nil
		})

		runPicker(app, delimiter)
	},
}

// runPicker drives the selector with line-based commands. The state
// lives entirely in picker.App; this loop only translates input and
// renders.
func runPicker(app *picker.App, delimiter rune) {
	render(app)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "q":
			return
		case "j", "n":
			app.Apply(picker.EventNext)
		case "k", "p":
			app.Apply(picker.EventPrev)
		case "tab", "t":
			app.Apply(picker.EventSwitchPanel)
		case " ", "x":
			app.Apply(picker.EventToggle)
		case "e":
			exportCurrent(app, delimiter)
		default:
			app.Message = "commands: j/k move, t switch panel, x toggle column, e export, q quit"
		}
		render(app)
	}
}

func exportCurrent(app *picker.App, delimiter rune) {
	source := app.CurrentFile()
	selected := app.SelectedColumns()
	if len(selected) == 0 {
		app.Message = "no columns selected"
		return
	}
	outcome := csv2parquet.Convert(csv2parquet.Job{
		SourcePath:   source,
		Delimiter:    delimiter,
		HasHeader:    pickOpts.Header,
		SamplingSize: pickOpts.SamplingSize,
		Columns:      selected,
	})
	if outcome.Err != nil {
		app.Message = fmt.Sprintf("export failed: %v", outcome.Err)
		return
	}
	app.Message = "exported " + csv2parquet.TargetPath(source, "")
}

func render(app *picker.App) {
	fmt.Println()
	fmt.Println("Files:")
	for i, f := range app.Files {
		cursor := "  "
		if i == app.FileIndex && app.Active == picker.PanelFiles {
			cursor = "> "
		}
		fmt.Printf("%s%s\n", cursor, f)
	}
	fmt.Println("Columns:")
	for i, c := range app.Columns {
		cursor := "  "
		if i == app.ColumnIndex && app.Active == picker.PanelColumns {
			cursor = "> "
		}
		mark := " "
		if c.Selected {
			mark = "x"
		}
		fmt.Printf("%s[%s] %s (%s)\n", cursor, mark, c.Name, c.Type)
	}
	if app.Message != "" {
		fmt.Println(app.Message)
	}
	fmt.Print("> ")
}
