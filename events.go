package lingolens

// EventType identifies an annotation lifecycle event.
type EventType uint8

const (
	EventPlaced          EventType = iota // an annotation was attached to the scene
	EventDeleted                          // one annotation was removed
	EventReset                            // every annotation was removed
	EventRescaled                         // the global scale changed
	EventPlacementFailed                  // a placement found no surface
)

// String returns a lower-case name for logs.
func (t EventType) String() string {
	switch t {
	case EventPlaced:
		return "placed"
	case EventDeleted:
		return "deleted"
	case EventReset:
		return "reset"
	case EventRescaled:
		return "rescaled"
	case EventPlacementFailed:
		return "placement_failed"
	default:
		return "unknown"
	}
}

// AnnotationEvent carries lifecycle data to an EventSink.
type AnnotationEvent struct {
	Type    EventType
	ID      string
	Label   string
	Index   int
	Outcome OutcomeKind
	Scale   float64
	// Count is the number of live annotations after the event.
	Count int
}

// EventSink is the interface for optional event forwarding (for example to an
// ECS world). When set on a Store, lifecycle events are delivered to it on the
// render goroutine.
type EventSink interface {
	EmitEvent(event AnnotationEvent)
}
