package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhyas01/lingolens"
)

func newLayoutCommand() *cobra.Command {
	var (
		maxLines int
		maxChars int
	)

	cmd := &cobra.Command{
		Use:   "layout <label>...",
		Short: "Print how a label is broken into display lines",
		Example: `  lingolens layout "This is a very long descriptive label exceeding two lines of text"
  lingolens layout --max-chars 12 "Coffee mug" "Stainless steel water bottle"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.LayoutOptions()
			if cmd.Flags().Changed("max-lines") {
				opts.MaxLines = maxLines
			}
			if cmd.Flags().Changed("max-chars") {
				opts.MaxCharsPerLine = maxChars
			}
			out := cmd.OutOrStdout()
			for _, label := range args {
				block := lingolens.Layout(label, opts)
				fmt.Fprintf(out, "%q (truncated=%v)\n", label, block.Truncated)
				for i, line := range block.Lines {
					fmt.Fprintf(out, "  %d | %-*s |\n", i+1, opts.MaxCharsPerLine, line)
				}
				fmt.Fprintln(out, "  "+strings.Repeat("-", opts.MaxCharsPerLine+6))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLines, "max-lines", 2, "maximum number of lines")
	cmd.Flags().IntVar(&maxChars, "max-chars", 20, "maximum characters per line")

	return cmd
}
