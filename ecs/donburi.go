package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/abhyas01/lingolens"
)

// AnnotationEventType is the Donburi event type for annotation lifecycle
// events. Subscribe to this in your ECS systems to react to placements.
var AnnotationEventType = events.NewEventType[lingolens.AnnotationEvent]()

// AnnotationData mirrors one live annotation as an ECS component.
type AnnotationData struct {
	ID      string
	Label   string
	Outcome lingolens.OutcomeKind
	Scale   float64
}

// Annotation is the component type attached to mirrored annotation entities.
var Annotation = donburi.NewComponentType[AnnotationData]()

// AnnotationQuery matches every mirrored annotation entity.
var AnnotationQuery = donburi.NewQuery(filter.Contains(Annotation))

type donburiSink struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Every event
// is published to AnnotationEventType, and live annotations are mirrored as
// entities carrying the Annotation component.
func NewDonburiSink(world donburi.World) lingolens.EventSink {
	return &donburiSink{world: world, entities: make(map[string]donburi.Entity)}
}

func (s *donburiSink) EmitEvent(event lingolens.AnnotationEvent) {
	switch event.Type {
	case lingolens.EventPlaced:
		e := s.world.Create(Annotation)
		donburi.SetValue(s.world.Entry(e), Annotation, AnnotationData{
			ID:      event.ID,
			Label:   event.Label,
			Outcome: event.Outcome,
			Scale:   event.Scale,
		})
		s.entities[event.ID] = e
	case lingolens.EventDeleted:
		if e, ok := s.entities[event.ID]; ok {
			s.world.Remove(e)
			delete(s.entities, event.ID)
		}
	case lingolens.EventReset:
		for id, e := range s.entities {
			s.world.Remove(e)
			delete(s.entities, id)
		}
	case lingolens.EventRescaled:
		AnnotationQuery.Each(s.world, func(entry *donburi.Entry) {
			Annotation.Get(entry).Scale = event.Scale
		})
	}
	AnnotationEventType.Publish(s.world, event)
}
