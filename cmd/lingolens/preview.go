package main

import (
	"github.com/spf13/cobra"

	"github.com/abhyas01/lingolens"
	"github.com/abhyas01/lingolens/preview"
)

func newPreviewCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "preview <label>",
		Short: "Rasterize one label surface to a PNG or WebP file",
		Example: `  lingolens preview "Coffee mug" -o mug.png
  lingolens preview "Stainless steel water bottle" -o bottle.webp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			factory, err := lingolens.NewFactory(cfg)
			if err != nil {
				return err
			}
			label := args[0]
			block := lingolens.Layout(label, cfg.LayoutOptions())
			img := factory.Rasterize(block, label)
			if err := preview.Write(out, img); err != nil {
				return err
			}
			w, h := factory.Size(block, label)
			logger := newLogger(cfg)
			logger.Info().
				Str("path", out).
				Strs("lines", block.Lines).
				Float64("width_m", w).
				Float64("height_m", h).
				Int("width_px", img.Bounds().Dx()).
				Int("height_px", img.Bounds().Dy()).
				Msg("preview written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "label.png", "output file (.png or .webp)")

	return cmd
}
