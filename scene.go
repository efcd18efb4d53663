package lingolens

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

const defaultCommandCap = 64

// Scene owns the node tree root, the camera and the render buffers. The
// store attaches annotation nodes to Root; Draw projects and paints them.
type Scene struct {
	root   *Node
	camera *Camera
	log    zerolog.Logger
	debug  bool

	// ClearColor fills the target before drawing when its alpha is non-zero.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes its files.
	ScreenshotDir   string
	ScreenshotExt   string
	screenshotQueue []string

	// Render state
	commands []renderCommand
	verts    [4]ebiten.Vertex
}

// NewScene creates a scene with a root container and a camera covering
// viewport.
func NewScene(viewport Rect) *Scene {
	return &Scene{
		root:          NewContainer("root"),
		camera:        NewCamera(viewport),
		log:           zerolog.Nop(),
		ScreenshotDir: "screenshots",
		ScreenshotExt: ".png",
		commands:      make([]renderCommand, 0, defaultCommandCap),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera. Hosts move it every frame to follow the
// tracked pose.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetLogger replaces the scene logger.
func (s *Scene) SetLogger(l zerolog.Logger) {
	s.log = l.With().Str("component", "scene").Logger()
	debugLog = s.log
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, child count warnings are logged, and per-frame timing stats
// are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// Draw projects every visible label node through the camera, sorts them far
// to near, and paints each as a textured quad onto screen. Queued screenshots
// are captured afterwards.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.NRGBA())
	}

	var stats frameStats
	lap := s.stopwatch()

	s.commands = s.commands[:0]
	s.collect(s.root)
	stats.collect = lap()

	s.sortByDepth()
	stats.sort = lap()
	stats.labels = len(s.commands)

	stats.drawCalls = s.submit(screen)
	stats.submit = lap()
	s.logFrameStats(stats)

	s.flushScreenshots(screen)
}
