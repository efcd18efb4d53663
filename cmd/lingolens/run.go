package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhyas01/lingolens"
	"github.com/abhyas01/lingolens/ecs"
	"github.com/abhyas01/lingolens/status"
)

var sampleLabels = []string{
	"Coffee mug",
	"Potted plant",
	"Stainless steel water bottle",
	"Chair",
	"This is a very long descriptive label exceeding two lines of text",
	"Laptop",
}

// rescaleSteps are the global scales cycled with +/-.
var rescaleSteps = []float64{0.5, 0.75, 1, 1.5, 2}

func newRunCommand() *cobra.Command {
	var (
		width        int
		height       int
		scriptPath   string
		exitWhenDone bool
		discover     bool
		detectEvery  time.Duration
		screenshots  string
		webp         bool
		statusAddr   string
		watchConfig  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive room viewer",
		Long: `Open a window onto the simulated room.

Controls:
  Enter / Space    place the detected label at the ROI center
  W A S D          walk      Left / Right   turn
  click a label    select it, then Delete to remove (Y confirms)
  R                remove every label
  + / -            change the global label scale
  P                reveal the next detected plane
  F12              screenshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			tracer, shutdown, err := newTracer(traceMode, appVersion)
			if err != nil {
				return err
			}
			defer shutdown()

			g, err := newGame(cfg, logger, tracer, width, height, discover)
			if err != nil {
				return err
			}
			g.scene.ScreenshotDir = screenshots
			if webp {
				g.scene.ScreenshotExt = ".webp"
			}
			if scriptPath != "" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return err
				}
				script, err := lingolens.ParseScript(scriptPath, f)
				f.Close()
				if err != nil {
					return err
				}
				g.runner = lingolens.NewScriptRunner(script, logger)
				g.runner.ROI = g.roi
				g.exitWhenDone = exitWhenDone
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go classify(ctx, g.store, detectEvery, func(label string) { g.detected = label })
			if watchConfig && configPath != "" {
				err := lingolens.WatchConfig(ctx, configPath, logger, func(c lingolens.Config) {
					g.store.Post(func() { g.store.ApplyConfig(c) })
				})
				if err != nil {
					return err
				}
			}
			if statusAddr != "" {
				router := status.NewRouter(g.store, status.Options{
					Gatherer: g.metrics.Registry(),
					Logger:   logger,
				})
				go func() {
					if err := status.ListenAndServe(ctx, statusAddr, router, logger); err != nil {
						logger.Error().Err(err).Msg("status server")
					}
				}()
			}
			go func() {
				<-ctx.Done()
				g.quit.Store(true)
			}()

			ebiten.SetWindowTitle("lingolens")
			ebiten.SetWindowSize(width, height)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			return ebiten.RunGame(g)
		},
	}

	cmd.Flags().IntVar(&width, "width", 1280, "window width")
	cmd.Flags().IntVar(&height, "height", 720, "window height")
	cmd.Flags().StringVar(&scriptPath, "script", "", "command script to play on start")
	cmd.Flags().BoolVar(&exitWhenDone, "exit", false, "quit when the script finishes")
	cmd.Flags().BoolVar(&discover, "discover", false, "start with no known planes (press P to reveal)")
	cmd.Flags().DurationVar(&detectEvery, "detect-every", 3*time.Second, "simulated classifier interval")
	cmd.Flags().StringVar(&screenshots, "screenshots", "screenshots", "screenshot directory")
	cmd.Flags().BoolVar(&webp, "webp", false, "write screenshots as WebP")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "serve /healthz, /metrics and /annotations on this address")
	cmd.Flags().BoolVar(&watchConfig, "watch-config", false, "reload layout and raycast settings when --config changes")

	return cmd
}

// classify stands in for the upstream detector. Results arrive on their own
// goroutine and are handed to the render loop through Store.Post.
func classify(ctx context.Context, store *lingolens.Store, every time.Duration, set func(string)) {
	if every <= 0 {
		every = 3 * time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	store.Post(func() { set(sampleLabels[0]) })
	for i := 1; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			label := sampleLabels[i%len(sampleLabels)]
			store.Post(func() { set(label) })
		}
	}
}

type game struct {
	log     zerolog.Logger
	scene   *lingolens.Scene
	store   *lingolens.Store
	metrics *lingolens.Metrics
	world   donburi.World
	room    *room
	walker  walker
	hud     *lingolens.TTFFont
	fps     *lingolens.FPSMeter
	roi     lingolens.Rect
	taps    lingolens.TapTracker

	runner       *lingolens.ScriptRunner
	exitWhenDone bool
	quit         atomic.Bool

	detected   string
	selected   int
	confirming bool
	scaleIdx   int
}

func newGame(cfg lingolens.Config, logger zerolog.Logger, tracer trace.Tracer, width, height int, discover bool) (*game, error) {
	factory, err := lingolens.NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	hud, err := lingolens.DefaultHUDFont(16)
	if err != nil {
		return nil, err
	}
	viewport := lingolens.Rect{Width: float64(width), Height: float64(height)}
	scene := lingolens.NewScene(viewport)
	scene.ClearColor = lingolens.Color{R: 0.09, G: 0.1, B: 0.12, A: 1}
	scene.SetLogger(logger)
	scene.SetDebugMode(verbose)

	metrics := lingolens.NewMetrics("lingolens")
	opts := cfg.StoreOptions(factory)
	opts.Logger = &logger
	opts.Metrics = metrics
	opts.Tracer = tracer
	world := donburi.NewWorld()
	opts.Sink = ecs.NewDonburiSink(world)

	g := &game{
		log:      logger,
		scene:    scene,
		store:    lingolens.NewStore(opts),
		metrics:  metrics,
		world:    world,
		room:     newRoom(scene.Camera(), uint64(time.Now().UnixNano()), discover),
		walker:   walker{pos: lingolens.Vec3{Y: 1.5, Z: 2}},
		hud:      hud,
		fps:      lingolens.NewFPSMeter(),
		roi:      roiRect(viewport),
		selected: -1,
		scaleIdx: 2,
	}
	g.walker.apply(scene.Camera())
	ecs.AnnotationEventType.Subscribe(world, func(_ donburi.World, ev lingolens.AnnotationEvent) {
		g.log.Debug().Stringer("event", ev.Type).Str("label", ev.Label).Int("count", ev.Count).Msg("annotation event")
	})
	return g, nil
}

func (g *game) Update() error {
	if g.quit.Load() {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())
	g.fps.Update(dt)

	g.handleMovement(dt)
	g.handleCommands()
	g.handleSelection()

	if g.runner != nil {
		_ = g.runner.Step(g.store, g.scene)
		if g.runner.Done() && g.exitWhenDone && g.scene.PendingScreenshots() == 0 {
			return ebiten.Termination
		}
	}
	if err := g.store.Update(g.scene.Root(), g.room.frame, dt); err != nil {
		g.log.Debug().Err(err).Msg("placement")
	}
	ecs.AnnotationEventType.ProcessEvents(g.world)
	return nil
}

func (g *game) handleMovement(dt float64) {
	const speed, turn = 1.5, 1.8
	var fwd, strafe float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		fwd += speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		fwd -= speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		strafe += speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		strafe -= speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.walker.yaw += turn * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.walker.yaw -= turn * dt
	}
	g.walker.move(fwd, strafe)
	g.walker.apply(g.scene.Camera())
}

func (g *game) handleCommands() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		_ = g.store.Add(g.detected, g.roi.Center())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.store.ResetAll()
		g.selected, g.confirming = -1, false
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.scaleIdx = min(g.scaleIdx+1, len(rescaleSteps)-1)
		_ = g.store.RescaleAll(rescaleSteps[g.scaleIdx])
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.scaleIdx = max(g.scaleIdx-1, 0)
		_ = g.store.RescaleAll(rescaleSteps[g.scaleIdx])
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if !g.room.reveal() {
			g.log.Info().Msg("every plane is already known")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.scene.Screenshot("manual")
	}
}

// handleSelection implements tap-to-select and the delete confirmation step.
func (g *game) handleSelection() {
	pressed, p := lingolens.PollPointer()
	if tap, ok := g.taps.Update(pressed, p); ok {
		g.selected = g.store.HitTest(g.scene.Camera(), tap)
		g.confirming = false
	}
	if g.selected < 0 {
		return
	}
	switch {
	case !g.confirming && (inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)):
		g.confirming = true
	case g.confirming && inpututil.IsKeyJustPressed(ebiten.KeyY):
		_ = g.store.Delete(g.selected)
		g.selected, g.confirming = -1, false
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.selected, g.confirming = -1, false
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)

	roiColor := color.NRGBA{R: 120, G: 200, B: 255, A: 180}
	if g.store.State() == lingolens.StatePlacing {
		roiColor = color.NRGBA{R: 255, G: 210, B: 90, A: 220}
	}
	vector.StrokeRect(screen, float32(g.roi.X), float32(g.roi.Y), float32(g.roi.Width), float32(g.roi.Height), 2, roiColor, true)

	lh := g.hud.LineHeight()
	lingolens.DrawText(screen, g.hud, fmt.Sprintf("Detected: %s", g.detected), 12, 12, lingolens.ColorWhite)
	lingolens.DrawText(screen, g.hud, fmt.Sprintf("Scale: %.2f   Labels: %d   Entities: %d", g.store.Scale(), g.store.Len(), ecs.AnnotationQuery.Count(g.world)), 12, 12+lh, lingolens.ColorWhite)
	lingolens.DrawAnnotationList(screen, g.hud, g.store.Annotations(), 12, 12+3*lh)

	if g.selected >= 0 && g.selected < g.store.Len() {
		a := g.store.Annotations()[g.selected]
		prompt := fmt.Sprintf("Selected %q. Delete to remove.", a.Label)
		if g.confirming {
			prompt = fmt.Sprintf("Delete %q? Y / N", a.Label)
		}
		lingolens.DrawText(screen, g.hud, prompt, 12, float64(screen.Bounds().Dy())-2*lh, lingolens.ColorWhite)
	}

	if msg, alpha, ok := g.store.PlacementError(); ok {
		lingolens.DrawBanner(screen, g.hud, msg, alpha)
	}
	if verbose {
		g.fps.Draw(screen, screen.Bounds().Dx()-90, 8)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	viewport := lingolens.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if g.scene.Camera().Viewport != viewport {
		g.scene.Camera().Viewport = viewport
		g.roi = roiRect(viewport)
		if g.runner != nil {
			g.runner.ROI = g.roi
		}
	}
	return outsideWidth, outsideHeight
}
