package lingolens

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// PlacementFailedMessage is the banner text shown when no surface is found.
const PlacementFailedMessage = "Couldn't find a surface here. Move the device and try again."

// PlacementState is the store's single in-flight operation state.
type PlacementState uint8

const (
	StateIdle    PlacementState = iota // ready for a new add
	StatePlacing                       // an add is waiting to be resolved
)

// String returns "idle" or "placing".
func (s PlacementState) String() string {
	if s == StatePlacing {
		return "placing"
	}
	return "idle"
}

// placementMachine guards the Idle -> Placing -> Idle cycle.
type placementMachine struct {
	state PlacementState
}

// begin moves Idle -> Placing. It returns false when already placing.
func (m *placementMachine) begin() bool {
	if m.state == StatePlacing {
		return false
	}
	m.state = StatePlacing
	return true
}

// finish moves Placing -> Idle.
func (m *placementMachine) finish() {
	m.state = StateIdle
}

// Annotation is one placed label. Label and WorldTransform never change after
// creation; Scale follows RescaleAll.
type Annotation struct {
	ID             string
	Label          string
	WorldTransform Mat4
	Scale          float64
	Outcome        OutcomeKind

	node *Node
}

// Node returns the scene node owned by the annotation.
func (a Annotation) Node() *Node {
	return a.node
}

// StoreOptions configures a Store. Builder is required.
type StoreOptions struct {
	Builder  Builder
	Resolver *Resolver
	Layout   LayoutOptions
	Logger   *zerolog.Logger
	Metrics  *Metrics
	Sink     EventSink
	// Tracer wraps each placement in a span. Defaults to a no-op tracer.
	Tracer trace.Tracer

	// ErrorSeconds is the placement-failure banner lifetime.
	ErrorSeconds float64
	// InitialScale is the global scale before any RescaleAll.
	InitialScale float64

	// CommitGuard, when set, is consulted right before a resolved placement
	// is attached. Returning false drops it silently.
	CommitGuard func(label string) bool
}

// pendingPlacement is an accepted add waiting for the next frame.
type pendingPlacement struct {
	label string
	point Vec2
}

// Store owns the live annotations and serializes placements. Every method
// except Post must be called on the render goroutine.
type Store struct {
	builder  Builder
	resolver *Resolver
	layout   LayoutOptions
	log      zerolog.Logger
	metrics  *Metrics
	sink     EventSink
	tracer   trace.Tracer
	guard    func(string) bool

	errorSeconds float64
	scale        float64

	machine     placementMachine
	pending     *pendingPlacement
	annotations []Annotation
	banner      Banner

	inboxMu sync.Mutex
	inbox   []func()
}

// NewStore creates an empty store in the Idle state.
func NewStore(opts StoreOptions) *Store {
	if opts.Builder == nil {
		panic("lingolens: StoreOptions.Builder is required")
	}
	s := &Store{
		builder:      opts.Builder,
		resolver:     opts.Resolver,
		layout:       opts.Layout.withDefaults(),
		metrics:      opts.Metrics,
		sink:         opts.Sink,
		tracer:       opts.Tracer,
		guard:        opts.CommitGuard,
		errorSeconds: opts.ErrorSeconds,
		scale:        opts.InitialScale,
	}
	if s.resolver == nil {
		s.resolver = DefaultResolver(RaycastOptions{})
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "store").Logger()
	} else {
		s.log = zerolog.Nop()
	}
	if s.errorSeconds <= 0 {
		s.errorSeconds = DefaultErrorSeconds
	}
	if s.scale <= 0 {
		s.scale = 1
	}
	return s
}

// NewStoreFromConfig wires a store from cfg. Logger, metrics and sink may be
// nil.
func NewStoreFromConfig(cfg Config, builder Builder, logger *zerolog.Logger, metrics *Metrics, sink EventSink) *Store {
	opts := cfg.StoreOptions(builder)
	opts.Logger = logger
	opts.Metrics = metrics
	opts.Sink = sink
	return NewStore(opts)
}

// ApplyConfig swaps in the layout, raycast and banner settings of cfg. It
// replaces any custom resolver. Live annotations keep their surfaces; the
// new layout only affects later adds.
func (s *Store) ApplyConfig(cfg Config) {
	s.layout = cfg.LayoutOptions().withDefaults()
	s.resolver = DefaultResolver(cfg.RaycastOptions())
	if cfg.Placement.ErrorSeconds > 0 {
		s.errorSeconds = cfg.Placement.ErrorSeconds
	}
	s.log.Info().
		Int("max_lines", s.layout.MaxLines).
		Int("max_chars", s.layout.MaxCharsPerLine).
		Msg("config applied")
}

// State returns the current placement state.
func (s *Store) State() PlacementState {
	return s.machine.state
}

// Len returns the number of live annotations.
func (s *Store) Len() int {
	return len(s.annotations)
}

// Scale returns the current global scale.
func (s *Store) Scale() float64 {
	return s.scale
}

// Annotations returns a snapshot of the live annotations in placement order.
func (s *Store) Annotations() []Annotation {
	out := make([]Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// Add requests a placement of label at point (normally the ROI center). The
// placement is resolved on the next Update against that frame. Empty labels
// and adds while another is placing are rejected without side effects.
func (s *Store) Add(label string, point Vec2) error {
	if isBlank(label) {
		s.metrics.recordRejection(ErrInvalidLabel)
		s.log.Debug().Msg("add ignored: empty label")
		return ErrInvalidLabel
	}
	if !s.machine.begin() {
		s.metrics.recordRejection(ErrPlacementInProgress)
		s.log.Debug().Str("label", label).Msg("add ignored: placement in progress")
		return ErrPlacementInProgress
	}
	s.pending = &pendingPlacement{label: label, point: point}
	s.log.Debug().Str("label", label).Float64("x", point.X).Float64("y", point.Y).Msg("placement queued")
	return nil
}

// Post queues fn to run at the start of the next Update. It is the only
// Store method safe to call from other goroutines.
func (s *Store) Post(fn func()) {
	if fn == nil {
		return
	}
	s.inboxMu.Lock()
	s.inbox = append(s.inbox, fn)
	s.inboxMu.Unlock()
}

func (s *Store) drainInbox() {
	s.inboxMu.Lock()
	fns := s.inbox
	s.inbox = nil
	s.inboxMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Update runs one frame: posted callbacks first, then the banner fade, then
// any pending placement against frame. root is the scene root the new node
// is attached to; the store does not keep it. The returned error is the
// outcome of a placement resolved during this call, if any.
func (s *Store) Update(root *Node, frame FrameContext, dt float64) error {
	s.drainInbox()
	s.banner.Update(dt)
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	s.pending = nil
	defer s.machine.finish()
	return s.place(root, frame, p)
}

func (s *Store) place(root *Node, frame FrameContext, p pendingPlacement) error {
	_, span := s.tracer.Start(context.Background(), "lingolens.place", trace.WithAttributes(
		attribute.String("label", p.label),
		attribute.Float64("screen.x", p.point.X),
		attribute.Float64("screen.y", p.point.Y),
	))
	defer span.End()

	start := time.Now()
	out := s.resolver.Resolve(p.point, frame)
	s.metrics.recordPlacement(out.Kind, time.Since(start).Seconds())
	span.SetAttributes(attribute.String("outcome", out.Kind.String()))

	if !out.OK() || root == nil {
		span.RecordError(ErrPlacementFailed)
		span.SetStatus(codes.Error, "no surface")
		s.fail(p.label)
		return ErrPlacementFailed
	}
	if s.guard != nil && !s.guard(p.label) {
		span.SetAttributes(attribute.Bool("dropped", true))
		s.log.Info().Str("label", p.label).Msg("placement dropped by commit guard")
		return nil
	}

	block := Layout(p.label, s.layout)
	span.SetAttributes(attribute.Bool("truncated", block.Truncated))
	node, err := s.builder.Build(block, p.label)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		s.log.Error().Err(err).Str("label", p.label).Msg("build annotation")
		s.fail(p.label)
		return err
	}

	node.Transform = root.WorldTransform().InvertRigid().Mul(out.Transform)
	node.Scale = s.scale
	root.AddChild(node)

	a := Annotation{
		ID:             uuid.NewString(),
		Label:          p.label,
		WorldTransform: out.Transform,
		Scale:          s.scale,
		Outcome:        out.Kind,
		node:           node,
	}
	s.annotations = append(s.annotations, a)
	s.metrics.setLive(len(s.annotations))
	span.SetAttributes(attribute.String("annotation.id", a.ID))

	pos := out.Transform.Position()
	s.log.Info().
		Str("id", a.ID).
		Str("label", a.Label).
		Stringer("outcome", out.Kind).
		Float64("x", pos.X).Float64("y", pos.Y).Float64("z", pos.Z).
		Msg("annotation placed")
	s.emit(AnnotationEvent{
		Type: EventPlaced, ID: a.ID, Label: a.Label, Index: len(s.annotations) - 1,
		Outcome: out.Kind, Scale: a.Scale,
	})
	return nil
}

func (s *Store) fail(label string) {
	s.metrics.recordRejection(ErrPlacementFailed)
	s.banner.Show(PlacementFailedMessage, s.errorSeconds)
	s.log.Warn().Str("label", label).Msg("placement failed")
	s.emit(AnnotationEvent{Type: EventPlacementFailed, Label: label, Index: -1, Outcome: OutcomeFailed, Scale: s.scale})
}

// PlacementError returns the transient failure message and its current
// opacity. ok is false once the banner has cleared.
func (s *Store) PlacementError() (message string, alpha float64, ok bool) {
	if !s.banner.Visible() {
		return "", 0, false
	}
	return s.banner.Message(), s.banner.Alpha(), true
}

// Delete detaches and removes the annotation at index. A stale index is
// logged and ignored.
func (s *Store) Delete(index int) error {
	if index < 0 || index >= len(s.annotations) {
		s.metrics.recordRejection(ErrInvalidIndex)
		s.log.Warn().Int("index", index).Int("count", len(s.annotations)).Msg("delete ignored: index out of range")
		return ErrInvalidIndex
	}
	a := s.annotations[index]
	a.node.Dispose()
	copy(s.annotations[index:], s.annotations[index+1:])
	s.annotations[len(s.annotations)-1] = Annotation{}
	s.annotations = s.annotations[:len(s.annotations)-1]
	s.metrics.setLive(len(s.annotations))

	s.log.Info().Str("id", a.ID).Str("label", a.Label).Int("index", index).Msg("annotation deleted")
	s.emit(AnnotationEvent{Type: EventDeleted, ID: a.ID, Label: a.Label, Index: index, Outcome: a.Outcome, Scale: a.Scale})
	return nil
}

// ResetAll detaches every annotation. It does not cancel a pending
// placement. Calling it on an empty store is a no-op apart from the event.
func (s *Store) ResetAll() {
	n := len(s.annotations)
	for i := range s.annotations {
		s.annotations[i].node.Dispose()
		s.annotations[i] = Annotation{}
	}
	s.annotations = s.annotations[:0]
	s.metrics.setLive(0)
	if n > 0 {
		s.log.Info().Int("removed", n).Msg("annotations reset")
	}
	s.emit(AnnotationEvent{Type: EventReset, Index: -1, Scale: s.scale})
}

// RescaleAll sets factor as the uniform scale of every annotation and of
// future placements. The factor replaces the previous scale; it is not
// multiplied into it.
func (s *Store) RescaleAll(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		s.metrics.recordRejection(ErrInvalidScale)
		s.log.Warn().Float64("factor", factor).Msg("rescale ignored: invalid factor")
		return ErrInvalidScale
	}
	s.scale = factor
	for i := range s.annotations {
		s.annotations[i].Scale = factor
		s.annotations[i].node.Scale = factor
	}
	s.log.Debug().Float64("factor", factor).Int("count", len(s.annotations)).Msg("annotations rescaled")
	s.emit(AnnotationEvent{Type: EventRescaled, Index: -1, Scale: factor})
	return nil
}

// HitTest returns the index of the nearest annotation whose drawn quad
// contains the screen point p, or -1.
func (s *Store) HitTest(cam *Camera, p Vec2) int {
	if cam == nil {
		return -1
	}
	best, bestDepth := -1, math.Inf(1)
	for i, a := range s.annotations {
		quad, depth, ok := projectQuad(a.node, cam)
		if !ok || !quadContains(quad, p) {
			continue
		}
		if depth < bestDepth {
			best, bestDepth = i, depth
		}
	}
	return best
}

func (s *Store) emit(ev AnnotationEvent) {
	if s.sink == nil {
		return
	}
	ev.Count = len(s.annotations)
	s.sink.EmitEvent(ev)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
