package cmds

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// fileConfig mirrors the convert flags. Values from the file act as
// defaults: a flag set explicitly on the command line wins.
type fileConfig struct {
	Delimiter    *string  `toml:"delimiter"`
	Header       *bool    `toml:"header"`
	SamplingSize *int     `toml:"sampling_size"`
	Workers      *int     `toml:"workers"`
	Columns      []string `toml:"columns"`
	TypeHints    *string  `toml:"typehints"`
	RowGroupSize *string  `toml:"rowgroup_size"`
	OutDir       *string  `toml:"out_dir"`
}

func applyConfigFile(cmd *cobra.Command, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg fileConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	flags := cmd.Flags()
	if cfg.Delimiter != nil && !flags.Changed("delimiter") {
		convertOpts.Delimiter = *cfg.Delimiter
	}
	if cfg.Header != nil && !flags.Changed("header") {
		convertOpts.Header = *cfg.Header
	}
	if cfg.SamplingSize != nil && !flags.Changed("sampling-size") {
		convertOpts.SamplingSize = *cfg.SamplingSize
	}
	if cfg.Workers != nil && !flags.Changed("workers") {
		convertOpts.Workers = *cfg.Workers
	}
	if cfg.Columns != nil && !flags.Changed("columns") {
		convertOpts.Columns = cfg.Columns
	}
	if cfg.TypeHints != nil && !flags.Changed("typehints") {
		convertOpts.TypeHints = *cfg.TypeHints
	}
	if cfg.RowGroupSize != nil && !flags.Changed("rowgroup-size") {
		convertOpts.RowGroupSize = *cfg.RowGroupSize
	}
	if cfg.OutDir != nil && !flags.Changed("out-dir") {
		convertOpts.OutDir = *cfg.OutDir
	}
	return nil
}
