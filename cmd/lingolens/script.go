package main

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhyas01/lingolens"
	"github.com/abhyas01/lingolens/preview"
)

const headlessDT = 1.0 / 60

func newScriptCommand() *cobra.Command {
	var (
		maxFrames   int
		width       int
		height      int
		sheetDir    string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Replay a command script headlessly and print the resulting annotations",
		Long: `Replay a command script against the simulated room without opening a window.

Script commands, one per line (# starts a comment):
  place "label" [at X, Y]   add a label at a screen point (default: ROI center)
  delete N                  remove annotation N
  reset                     remove every annotation
  rescale F                 set the global label scale
  wait N                    idle for N frames
  screenshot "name"         write a contact sheet of the live labels
  camera X, Y, Z look X, Y, Z
                            move the camera`,
		Example: `  lingolens script demo.lens
  lingolens script --sheets out/ --metrics demo.lens`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			script, err := lingolens.ParseScript(args[0], f)
			f.Close()
			if err != nil {
				return err
			}

			factory, err := lingolens.NewFactory(cfg)
			if err != nil {
				return err
			}
			metrics := lingolens.NewMetrics("lingolens")

			viewport := lingolens.Rect{Width: float64(width), Height: float64(height)}
			scene := lingolens.NewScene(viewport)
			scene.SetLogger(logger)
			w := walker{pos: lingolens.Vec3{Y: 1.5, Z: 2}}
			w.apply(scene.Camera())
			rm := newRoom(scene.Camera(), 1, false)

			tracer, shutdown, err := newTracer(traceMode, appVersion)
			if err != nil {
				return err
			}
			defer shutdown()

			opts := cfg.StoreOptions(factory)
			opts.Logger = &logger
			opts.Metrics = metrics
			opts.Tracer = tracer
			store := lingolens.NewStore(opts)
			runner := lingolens.NewScriptRunner(script, logger)
			runner.ROI = roiRect(viewport)
			runner.OnScreenshot = func(name string) {
				path := filepath.Join(sheetDir, name+".png")
				if err := writeSheet(path, factory, cfg.LayoutOptions(), store.Annotations()); err != nil {
					logger.Error().Err(err).Str("path", path).Msg("contact sheet")
					return
				}
				logger.Info().Str("path", path).Msg("contact sheet written")
			}

			ctx := cmd.Context()
			for frame := 0; !runner.Done(); frame++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if frame >= maxFrames {
					return fmt.Errorf("script did not finish within %d frames", maxFrames)
				}
				_ = runner.Step(store, scene)
				if err := store.Update(scene.Root(), rm.frame, headlessDT); err != nil {
					logger.Debug().Err(err).Int("frame", frame).Msg("placement")
				}
			}

			out := cmd.OutOrStdout()
			printAnnotations(out, store.Annotations())
			if showMetrics {
				return printMetrics(out, metrics)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxFrames, "max-frames", 10_000, "abort if the script runs longer than this")
	cmd.Flags().IntVar(&width, "width", 1280, "virtual viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", 720, "virtual viewport height in pixels")
	cmd.Flags().StringVar(&sheetDir, "sheets", "screenshots", "directory for screenshot contact sheets")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print placement metrics after the run")

	return cmd
}

// roiRect is the centered detection rectangle, 40% of the viewport.
func roiRect(viewport lingolens.Rect) lingolens.Rect {
	w, h := viewport.Width*0.4, viewport.Height*0.4
	return lingolens.Rect{
		X:      viewport.X + (viewport.Width-w)/2,
		Y:      viewport.Y + (viewport.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

func printAnnotations(out io.Writer, list []lingolens.Annotation) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tOUTCOME\tSCALE\tPOSITION")
	for i, a := range list {
		p := a.WorldTransform.Position()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t(%.2f, %.2f, %.2f)\n", i, a.Label, a.Outcome, a.Scale, p.X, p.Y, p.Z)
	}
	tw.Flush()
}

func printMetrics(out io.Writer, m *lingolens.Metrics) error {
	families, err := m.Registry().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := ""
			for _, lp := range metric.GetLabel() {
				labels += fmt.Sprintf("%s=%q ", lp.GetName(), lp.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), labels, metric.GetGauge().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Fprintf(out, "%s_count{%s} %d\n", mf.GetName(), labels, metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}

// writeSheet stacks every live label surface vertically into one image.
func writeSheet(path string, factory *lingolens.Factory, opts lingolens.LayoutOptions, list []lingolens.Annotation) error {
	const gap = 8
	surfaces := make([]*image.RGBA, 0, len(list))
	w, h := 1, gap
	for _, a := range list {
		img := factory.Rasterize(lingolens.Layout(a.Label, opts), a.Label)
		surfaces = append(surfaces, img)
		w = max(w, img.Bounds().Dx()+2*gap)
		h += img.Bounds().Dy() + gap
	}
	sheet := image.NewRGBA(image.Rect(0, 0, w, h))
	y := gap
	for _, img := range surfaces {
		r := image.Rect(gap, y, gap+img.Bounds().Dx(), y+img.Bounds().Dy())
		draw.Draw(sheet, r, img, img.Bounds().Min, draw.Over)
		y += img.Bounds().Dy() + gap
	}
	return preview.Write(path, sheet)
}
