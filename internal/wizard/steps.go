// Package wizard implements the screens of the room registration flow:
// which fields each screen needs before the host may move on, and the
// side effects some screens have on the form.
package wizard

import (
	"errors"
	"unicode/utf8"

	"github.com/samber/lo"

	"room-service/internal/registerroom"
)

const hrefPrefix = "/room/register/"

// MaxTitleLength is counted in characters, not bytes.
const MaxTitleLength = 50

var ErrStepInvalid = errors.New("wizard: step is not complete")

// StepError names the step that blocked navigation or submission.
type StepError struct {
	Step string
}

func (e *StepError) Error() string {
	return "wizard: step " + e.Step + " is not complete"
}

func (e *StepError) Is(target error) bool {
	return target == ErrStepInvalid
}

// Step is one screen of the flow. IsValid must not change the state.
type Step interface {
	Name() string
	IsValid(registerroom.State) bool
	PrevHref() string
	NextHref() string
}

type step struct {
	name  string
	prev  string
	next  string
	valid func(registerroom.State) bool
}

func (s step) Name() string { return s.name }
func (s step) IsValid(st registerroom.State) bool { return s.valid(st) }
func (s step) PrevHref() string { return s.prev }
func (s step) NextHref() string { return s.next }

func always(registerroom.State) bool { return true }

func set[T comparable](p *T) bool {
	var zero T
	return p != nil && *p != zero
}

func buildingValid(s registerroom.State) bool {
	return set(s.LargeBuildingType) && set(s.BuildingType) && set(s.RoomType) && s.IsSetUpForGuest != nil
}

func bedroomsValid(s registerroom.State) bool {
	return s.MaximumGuestCount >= 1 && s.BedroomCount >= 0 && s.BedCount >= 1 &&
		len(s.BedList) == s.BedroomCount
}

func bathroomValid(s registerroom.State) bool {
	return s.BathroomCount >= 1 && set(s.BathroomType)
}

// detailAddress is optional.
func locationValid(s registerroom.State) bool {
	return s.Country != "" && s.City != "" && s.District != "" && s.StreetAddress != "" && s.Postcode != ""
}

func geometryValid(s registerroom.State) bool {
	return s.Latitude != 0 || s.Longitude != 0
}

func photoValid(s registerroom.State) bool {
	return len(s.Photos) > 0
}

func descriptionValid(s registerroom.State) bool {
	return s.Description != ""
}

func titleValid(s registerroom.State) bool {
	return s.Title != "" && utf8.RuneCountInString(s.Title) <= MaxTitleLength
}

func priceValid(s registerroom.State) bool {
	return s.Price > 0
}

func dateValid(s registerroom.State) bool {
	return s.StartDate != nil && s.EndDate != nil && !s.EndDate.Before(*s.StartDate)
}

var steps = chain(
	step{name: "building", valid: buildingValid},
	step{name: "bedrooms", valid: bedroomsValid},
	step{name: "bathroom", valid: bathroomValid},
	step{name: "location", valid: locationValid},
	step{name: "geometry", valid: geometryValid},
	step{name: "amenities", valid: always},
	step{name: "conveniences", valid: always},
	step{name: "photo", valid: photoValid},
	step{name: "description", valid: descriptionValid},
	step{name: "title", valid: titleValid},
	step{name: "price", valid: priceValid},
	step{name: "date", valid: dateValid},
	step{name: "checklist", valid: always},
)

// chain links consecutive steps. The first step goes back to the home page,
// the last one has nowhere to go.
func chain(list ...step) []Step {
	out := make([]Step, len(list))
	for i, s := range list {
		s.prev = "/"
		if i > 0 {
			s.prev = hrefPrefix + list[i-1].name
		}
		if i < len(list)-1 {
			s.next = hrefPrefix + list[i+1].name
		}
		out[i] = s
	}
	return out
}

// Steps returns the flow in order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

func Lookup(name string) (Step, bool) {
	return lo.Find(steps, func(s Step) bool { return s.Name() == name })
}

// Href is the address of a step.
func Href(s Step) string {
	return hrefPrefix + s.Name()
}

// Next returns where the Next button of s leads, or a *StepError while the
// step is incomplete.
func Next(s Step, st registerroom.State) (string, error) {
	if !s.IsValid(st) {
		return "", &StepError{Step: s.Name()}
	}
	return s.NextHref(), nil
}

// Validate reports the first incomplete step, if any.
func Validate(st registerroom.State) error {
	if s, ok := lo.Find(steps, func(s Step) bool { return !s.IsValid(st) }); ok {
		return &StepError{Step: s.Name()}
	}
	return nil
}
