// Package geo defines the map collaborators the registration flow talks to:
// place search, place details, reverse geocoding and device geolocation.
package geo

import (
	"context"
	"errors"
)

var (
	// ErrLocationUnavailable is returned by a Locator that cannot produce a
	// position, e.g. because the user denied access.
	ErrLocationUnavailable = errors.New("geo: location unavailable")
	// ErrNoResults is returned when the map service knows nothing about the input.
	ErrNoResults = errors.New("geo: no results")
)

type Coordinates struct {
	Latitude  float64 `json:"latitude" form:"latitude"`
	Longitude float64 `json:"longitude" form:"longitude"`
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Place is a resolved suggestion.
type Place struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationInfo is the structured address a coordinate pair resolves to.
type LocationInfo struct {
	Country       string  `json:"country"`
	City          string  `json:"city"`
	District      string  `json:"district"`
	StreetAddress string  `json:"streetAddress"`
	DetailAddress string  `json:"detailAddress"`
	Postcode      string  `json:"postcode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, keyword string) ([]Prediction, error)
}

type PlaceResolver interface {
	GetPlace(ctx context.Context, placeID string) (Place, error)
}

type ReverseGeocoder interface {
	GetLocationInfo(ctx context.Context, at Coordinates) (LocationInfo, error)
}

// Service bundles the three map lookups.
type Service interface {
	PlaceSearcher
	PlaceResolver
	ReverseGeocoder
}

// Locator yields the device position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// StaticLocator always reports the same position. A nil StaticLocator
// behaves like a device without location access.
type StaticLocator struct {
	At *Coordinates
}

func (l *StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if l == nil || l.At == nil {
		return Coordinates{}, ErrLocationUnavailable
	}
	return *l.At, nil
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) {
	return f(ctx)
}
