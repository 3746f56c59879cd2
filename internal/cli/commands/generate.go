package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nemanja-m/chunkstat/internal/generate"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := generate.DefaultOptions()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic syslog file",
		Long: `Write a synthetic syslog file with known statistics.

The file holds --blocks blocks of --repeat baseline records followed by
records at the edges of the format, one alert and one newest record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := generate.WriteFile(out, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s lines to %s\n", humanize.Comma(int64(n)), out)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file")
	cmd.Flags().IntVar(&opts.Blocks, "blocks", opts.Blocks, "Number of blocks")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", opts.Repeat, "Baseline records per block")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
