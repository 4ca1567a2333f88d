package ecs

import (
	"github.com/phanxgames/roi"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BoxEventType is the Donburi event type for roi box edits.
//
// Subscribers receive one event per finished gesture: BoxCreated, BoxMoved
// or BoxResized carry the committed bounds, BoxDeleted carries the bounds
// the box had when it was removed. BoxDiscarded reports a box that was too
// small to keep; its id never reaches the collection, so systems that mirror
// boxes into entities can ignore it (see CommittedEdits).
var BoxEventType = events.NewEventType[roi.BoxEvent]()

// CommittedEdits lists the event types that change the box collection.
var CommittedEdits = []roi.BoxEventType{roi.BoxCreated, roi.BoxMoved, roi.BoxResized, roi.BoxDeleted}

type donburiStore struct {
	world donburi.World
	types map[roi.BoxEventType]bool // nil publishes every type
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Box edits are published to BoxEventType and can be consumed with
// events.Subscribe and ProcessEvents. When types are given, only edits of
// those types are published.
func NewDonburiStore(world donburi.World, types ...roi.BoxEventType) roi.EntityStore {
	s := &donburiStore{world: world}
	if len(types) > 0 {
		s.types = make(map[roi.BoxEventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
	return s
}

func (s *donburiStore) EmitEvent(event roi.BoxEvent) {
	if s.types != nil && !s.types[event.Type] {
		return
	}
	BoxEventType.Publish(s.world, event)
}
