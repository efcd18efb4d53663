package lingolens

import "math"

const (
	// DefaultFeatureTolerance is the feature-point search radius as a
	// fraction of the viewport width.
	DefaultFeatureTolerance = 0.1
	// DefaultProjectedDistance is how far in front of the camera the final
	// fallback places an annotation, in metres.
	DefaultProjectedDistance = 0.5
)

// OutcomeKind tags a RaycastOutcome.
type OutcomeKind uint8

const (
	OutcomeFailed            OutcomeKind = iota // no strategy produced a transform
	OutcomePlaneHit                             // hit reconstructed plane geometry
	OutcomeEstimatedPlaneHit                    // hit a not-yet-confirmed plane
	OutcomeFeaturePointHit                      // snapped to a tracked feature point
	OutcomeProjectedEstimate                    // fixed distance in front of the camera
)

// String returns a short, metric-label friendly name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFailed:
		return "failed"
	case OutcomePlaneHit:
		return "plane"
	case OutcomeEstimatedPlaneHit:
		return "estimated_plane"
	case OutcomeFeaturePointHit:
		return "feature_point"
	case OutcomeProjectedEstimate:
		return "projected"
	default:
		return "unknown"
	}
}

// RaycastOutcome is the result of resolving one screen point. Point is only
// meaningful for OutcomeFeaturePointHit; Transform is the zero matrix for
// OutcomeFailed.
type RaycastOutcome struct {
	Kind      OutcomeKind
	Transform Mat4
	Point     Vec3
}

// OK reports whether the outcome carries a usable transform.
func (o RaycastOutcome) OK() bool {
	return o.Kind != OutcomeFailed
}

// RaycastHit is one intersection reported by the host, nearest first.
type RaycastHit struct {
	Transform Mat4
	Distance  float64
}

// FrameContext is the host's spatial-query surface for a single frame.
type FrameContext interface {
	// RaycastPlanes queries reconstructed plane geometry of any alignment.
	RaycastPlanes(p Vec2) []RaycastHit
	// RaycastEstimatedPlanes queries planes the tracker has not confirmed.
	RaycastEstimatedPlanes(p Vec2) []RaycastHit
	// FeaturePoints returns the sparse point cloud in world space.
	FeaturePoints() []Vec3
	// Camera returns the current camera, or false when tracking has no pose.
	Camera() (*Camera, bool)
}

// Strategy is one tier of the placement search.
type Strategy interface {
	TryResolve(p Vec2, frame FrameContext) (RaycastOutcome, bool)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(p Vec2, frame FrameContext) (RaycastOutcome, bool)

// TryResolve calls f.
func (f StrategyFunc) TryResolve(p Vec2, frame FrameContext) (RaycastOutcome, bool) {
	return f(p, frame)
}

// Resolver evaluates its strategies in order and returns the first success.
// Outcomes from different tiers are never compared with each other.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver over the given strategies, highest fidelity
// first.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// DefaultResolver returns the standard four-tier chain.
func DefaultResolver(opts RaycastOptions) *Resolver {
	opts = opts.withDefaults()
	return NewResolver(
		PlaneStrategy{},
		EstimatedPlaneStrategy{},
		FeaturePointStrategy{Tolerance: opts.FeatureTolerance},
		ProjectedStrategy{Distance: opts.ProjectedDistance},
	)
}

// Strategies returns the ordered strategy list. The returned slice MUST NOT be mutated.
func (r *Resolver) Strategies() []Strategy {
	return r.strategies
}

// Resolve converts a screen point into a world placement.
func (r *Resolver) Resolve(p Vec2, frame FrameContext) RaycastOutcome {
	if frame == nil {
		return RaycastOutcome{Kind: OutcomeFailed}
	}
	for _, s := range r.strategies {
		if out, ok := s.TryResolve(p, frame); ok {
			return out
		}
	}
	return RaycastOutcome{Kind: OutcomeFailed}
}

// RaycastOptions tunes the fallback tiers.
type RaycastOptions struct {
	FeatureTolerance  float64
	ProjectedDistance float64
}

func (o RaycastOptions) withDefaults() RaycastOptions {
	if o.FeatureTolerance <= 0 {
		o.FeatureTolerance = DefaultFeatureTolerance
	}
	if o.ProjectedDistance <= 0 {
		o.ProjectedDistance = DefaultProjectedDistance
	}
	return o
}

// --- Strategies ---

// PlaneStrategy returns the closest hit on reconstructed plane geometry.
type PlaneStrategy struct{}

func (PlaneStrategy) TryResolve(p Vec2, frame FrameContext) (RaycastOutcome, bool) {
	hits := frame.RaycastPlanes(p)
	if len(hits) == 0 {
		return RaycastOutcome{}, false
	}
	return RaycastOutcome{Kind: OutcomePlaneHit, Transform: hits[0].Transform}, true
}

// EstimatedPlaneStrategy returns the closest hit on estimated planes.
type EstimatedPlaneStrategy struct{}

func (EstimatedPlaneStrategy) TryResolve(p Vec2, frame FrameContext) (RaycastOutcome, bool) {
	hits := frame.RaycastEstimatedPlanes(p)
	if len(hits) == 0 {
		return RaycastOutcome{}, false
	}
	return RaycastOutcome{Kind: OutcomeEstimatedPlaneHit, Transform: hits[0].Transform}, true
}

// FeaturePointStrategy snaps to the feature point whose projection lies
// closest to the target, within Tolerance × viewport width pixels. Ties are
// broken by depth, nearer first.
type FeaturePointStrategy struct {
	Tolerance float64
}

func (s FeaturePointStrategy) TryResolve(p Vec2, frame FrameContext) (RaycastOutcome, bool) {
	cam, ok := frame.Camera()
	if !ok {
		return RaycastOutcome{}, false
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultFeatureTolerance
	}
	maxDist := tol * cam.Viewport.Width

	best := -1
	bestDist, bestDepth := math.Inf(1), math.Inf(1)
	points := frame.FeaturePoints()
	for i, pt := range points {
		sp, depth, visible := cam.WorldToScreen(pt)
		if !visible {
			continue
		}
		d := math.Hypot(sp.X-p.X, sp.Y-p.Y)
		if d > maxDist {
			continue
		}
		if d < bestDist || (d == bestDist && depth < bestDepth) {
			best, bestDist, bestDepth = i, d, depth
		}
	}
	if best < 0 {
		return RaycastOutcome{}, false
	}
	pt := points[best]
	return RaycastOutcome{
		Kind:      OutcomeFeaturePointHit,
		Transform: FacingTransform(pt, cam.Position()),
		Point:     pt,
	}, true
}

// ProjectedStrategy places the annotation Distance metres along the camera's
// forward vector, facing the camera. It succeeds whenever a camera pose
// exists.
type ProjectedStrategy struct {
	Distance float64
}

func (s ProjectedStrategy) TryResolve(_ Vec2, frame FrameContext) (RaycastOutcome, bool) {
	cam, ok := frame.Camera()
	if !ok {
		return RaycastOutcome{}, false
	}
	dist := s.Distance
	if dist <= 0 {
		dist = DefaultProjectedDistance
	}
	eye := cam.Position()
	pos := eye.Add(cam.Forward().Scale(dist))
	return RaycastOutcome{
		Kind:      OutcomeProjectedEstimate,
		Transform: FacingTransform(pos, eye),
	}, true
}
