package roi

import (
	"errors"
	"fmt"
)

// ErrDuplicateBoxID is returned by ReplaceAll when two boxes share an id.
var ErrDuplicateBoxID = errors.New("duplicate box id")

// BoxStore holds the ordered box collection. Order is paint order: later
// boxes draw above earlier ones and win hit tests.
//
// ReplaceAll is the only way to change the collection. The store does not
// clamp or validate geometry; callers hand it finished values.
type BoxStore struct {
	boxes    []Box
	handlers handlerRegistry
}

// NewBoxStore creates an empty store.
func NewBoxStore() *BoxStore {
	return &BoxStore{}
}

// ReplaceAll swaps in a new collection and notifies OnChange listeners.
// A collection with duplicate ids is rejected and the store is left as is.
func (s *BoxStore) ReplaceAll(boxes []Box) error {
	seen := make(map[string]struct{}, len(boxes))
	for _, b := range boxes {
		if _, ok := seen[b.ID]; ok {
			return fmt.Errorf("replace boxes: %w: %q", ErrDuplicateBoxID, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	next := make([]Box, len(boxes))
	copy(next, boxes)
	s.boxes = next

	for _, h := range s.handlers.boxesChange {
		h.fn(s.Boxes())
	}
	return nil
}

// Boxes returns a copy of the current collection in order.
func (s *BoxStore) Boxes() []Box {
	out := make([]Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Box returns the box with the given id.
func (s *BoxStore) Box(id string) (Box, bool) {
	if i := s.index(id); i >= 0 {
		return s.boxes[i], true
	}
	return Box{}, false
}

// Len returns the number of boxes.
func (s *BoxStore) Len() int {
	return len(s.boxes)
}

// OnChange registers fn to receive the full collection after every
// replacement.
func (s *BoxStore) OnChange(fn func([]Box)) CallbackHandle {
	return s.handlers.addBoxesChange(fn)
}

func (s *BoxStore) index(id string) int {
	for i := range s.boxes {
		if s.boxes[i].ID == id {
			return i
		}
	}
	return -1
}

// replaced returns the collection with the box matching b.ID swapped for b.
func (s *BoxStore) replaced(b Box) []Box {
	out := s.Boxes()
	for i := range out {
		if out[i].ID == b.ID {
			out[i] = b
			break
		}
	}
	return out
}

// without returns the collection minus the box with the given id.
func (s *BoxStore) without(id string) []Box {
	out := make([]Box, 0, len(s.boxes))
	for _, b := range s.boxes {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
