package registerroom

import (
	"errors"
	"fmt"
)

// ErrBrokenInvariant is returned by Check for a snapshot the actions of this
// package could not have produced.
var ErrBrokenInvariant = errors.New("registerroom: form state breaks an invariant")

// Check reports the first invariant s breaks. Snapshots built by dispatching
// actions always pass; snapshots decoded from a request body may not.
func (s State) Check() error {
	if s.RoomType != nil && !s.RoomType.Valid() {
		return fmt.Errorf("%w: room type %q", ErrBrokenInvariant, *s.RoomType)
	}
	if s.BathroomType != nil && !s.BathroomType.Valid() {
		return fmt.Errorf("%w: bathroom type %q", ErrBrokenInvariant, *s.BathroomType)
	}
	if len(s.BedList) != s.BedroomCount {
		return fmt.Errorf("%w: %d bedrooms listed for a count of %d", ErrBrokenInvariant, len(s.BedList), s.BedroomCount)
	}
	for i, room := range s.BedList {
		if room.ID != i+1 {
			return fmt.Errorf("%w: bedroom %d has id %d", ErrBrokenInvariant, i+1, room.ID)
		}
		if err := checkBeds(room.Beds); err != nil {
			return fmt.Errorf("%w: bedroom %d: %w", ErrBrokenInvariant, room.ID, err)
		}
	}
	if err := checkBeds(s.PublicBedList); err != nil {
		return fmt.Errorf("%w: public beds: %w", ErrBrokenInvariant, err)
	}
	return nil
}

func checkBeds(beds []Bed) error {
	seen := make(map[BedType]bool, len(beds))
	for _, b := range beds {
		if b.Count <= 0 {
			return fmt.Errorf("bed type %q has count %d", b.Type, b.Count)
		}
		if seen[b.Type] {
			return fmt.Errorf("bed type %q listed twice", b.Type)
		}
		seen[b.Type] = true
	}
	return nil
}
