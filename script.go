package lingolens

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/rs/zerolog"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[,;]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
	)
)

// Script is a parsed command script: one command per line or separated by
// semicolons. Lines starting with # are comments.
//
//	camera 0, 1.5, 2 look 0, 1.2, 0
//	place "Coffee mug" at 640, 360
//	wait 2
//	rescale 1.5
//	screenshot "after-rescale"
//	delete 0
//	reset
type Script struct {
	Pos      lexer.Position `parser:""`
	Commands []*Command     `parser:"Newline* ( @@ ( ';' | Newline )* )*"`
}

// Command is one script statement.
type Command struct {
	Pos        lexer.Position     `parser:""`
	Place      *PlaceCommand      `parser:"  @@"`
	Delete     *DeleteCommand     `parser:"| @@"`
	Reset      *ResetCommand      `parser:"| @@"`
	Rescale    *RescaleCommand    `parser:"| @@"`
	Wait       *WaitCommand       `parser:"| @@"`
	Screenshot *ScreenshotCommand `parser:"| @@"`
	Camera     *CameraCommand     `parser:"| @@"`
}

// Kind returns the command keyword.
func (c *Command) Kind() string {
	switch {
	case c == nil:
		return "unknown"
	case c.Place != nil:
		return "place"
	case c.Delete != nil:
		return "delete"
	case c.Reset != nil:
		return "reset"
	case c.Rescale != nil:
		return "rescale"
	case c.Wait != nil:
		return "wait"
	case c.Screenshot != nil:
		return "screenshot"
	case c.Camera != nil:
		return "camera"
	default:
		return "unknown"
	}
}

// PlaceCommand adds a label. Without a point the ROI center is used.
type PlaceCommand struct {
	Label string        `parser:"'place' @String"`
	At    *PointLiteral `parser:"( 'at' @@ )?"`
}

// DeleteCommand removes the annotation at Index.
type DeleteCommand struct {
	Index int `parser:"'delete' @Number"`
}

// ResetCommand removes every annotation.
type ResetCommand struct {
	Keyword string `parser:"@'reset'"`
}

// RescaleCommand sets the global scale.
type RescaleCommand struct {
	Factor float64 `parser:"'rescale' @Number"`
}

// WaitCommand idles for Frames frames.
type WaitCommand struct {
	Frames int `parser:"'wait' @Number"`
}

// ScreenshotCommand captures the next drawn frame.
type ScreenshotCommand struct {
	Name string `parser:"'screenshot' @String"`
}

// CameraCommand moves the camera to Eye looking at Target.
type CameraCommand struct {
	Eye    Vec3Literal `parser:"'camera' @@"`
	Target Vec3Literal `parser:"'look' @@"`
}

// PointLiteral is "x, y" in screen pixels.
type PointLiteral struct {
	X float64 `parser:"@Number ','"`
	Y float64 `parser:"@Number"`
}

// Vec3Literal is "x, y, z" in metres.
type Vec3Literal struct {
	X float64 `parser:"@Number ','"`
	Y float64 `parser:"@Number ','"`
	Z float64 `parser:"@Number"`
}

func (v Vec3Literal) vec() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseScript parses a script from r. name is used in error positions.
func ParseScript(name string, r io.Reader) (*Script, error) {
	s, err := scriptParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("lingolens: parse script: %w", err)
	}
	if len(s.Commands) == 0 {
		return nil, fmt.Errorf("lingolens: parse script %s: no commands", name)
	}
	return s, nil
}

// ParseScriptString parses a script held in memory.
func ParseScriptString(name, src string) (*Script, error) {
	s, err := scriptParser.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("lingolens: parse script: %w", err)
	}
	if len(s.Commands) == 0 {
		return nil, fmt.Errorf("lingolens: parse script %s: no commands", name)
	}
	return s, nil
}

// ScriptRunner plays a Script against a Store and Scene, one command per
// frame. Call Step before Store.Update each frame.
type ScriptRunner struct {
	// ROI supplies the placement point for place commands without "at".
	// The camera viewport is used when it is empty.
	ROI Rect

	// OnScreenshot overrides Scene.Screenshot, for hosts that do not draw.
	OnScreenshot func(name string)

	commands  []*Command
	cursor    int
	waitCount int
	done      bool
	log       zerolog.Logger
}

// NewScriptRunner creates a runner for script.
func NewScriptRunner(script *Script, log zerolog.Logger) *ScriptRunner {
	return &ScriptRunner{commands: script.Commands, log: log}
}

// Done reports whether all commands have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame. It waits while a placement is
// pending so each place command resolves before the next command runs. The
// returned error is the executed command's result; the runner continues
// after errors, like an interactive user would.
func (r *ScriptRunner) Step(store *Store, scene *Scene) error {
	if r.done {
		return nil
	}
	if store.State() == StatePlacing {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.commands) {
		r.done = true
		return nil
	}

	cmd := r.commands[r.cursor]
	r.cursor++
	err := r.exec(cmd, store, scene)
	if err != nil {
		r.log.Warn().Err(err).Str("command", cmd.Kind()).Int("line", cmd.Pos.Line).Msg("script command failed")
	} else {
		r.log.Debug().Str("command", cmd.Kind()).Int("line", cmd.Pos.Line).Msg("script command")
	}

	if r.cursor >= len(r.commands) && r.waitCount == 0 && store.State() == StateIdle {
		r.done = true
	}
	return err
}

func (r *ScriptRunner) exec(cmd *Command, store *Store, scene *Scene) error {
	switch {
	case cmd.Place != nil:
		p := r.roiCenter(scene)
		if cmd.Place.At != nil {
			p = Vec2{X: cmd.Place.At.X, Y: cmd.Place.At.Y}
		}
		return store.Add(cmd.Place.Label, p)
	case cmd.Delete != nil:
		return store.Delete(cmd.Delete.Index)
	case cmd.Reset != nil:
		store.ResetAll()
	case cmd.Rescale != nil:
		return store.RescaleAll(cmd.Rescale.Factor)
	case cmd.Wait != nil:
		if cmd.Wait.Frames > 0 {
			r.waitCount = cmd.Wait.Frames - 1 // this frame counts as one
		}
	case cmd.Screenshot != nil:
		if r.OnScreenshot != nil {
			r.OnScreenshot(cmd.Screenshot.Name)
		} else if scene != nil {
			scene.Screenshot(cmd.Screenshot.Name)
		}
	case cmd.Camera != nil:
		if scene != nil {
			scene.Camera().LookAt(cmd.Camera.Eye.vec(), cmd.Camera.Target.vec())
		}
	}
	return nil
}

func (r *ScriptRunner) roiCenter(scene *Scene) Vec2 {
	if r.ROI.Width > 0 && r.ROI.Height > 0 {
		return r.ROI.Center()
	}
	if scene != nil {
		return scene.Camera().Viewport.Center()
	}
	return Vec2{}
}
