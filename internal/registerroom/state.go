// Package registerroom holds the form state a host accumulates while going
// through the room registration wizard, and the actions that edit it.
package registerroom

import (
	"time"

	"room-service/internal/store"
)

type RoomType string

const (
	RoomTypeEntire  RoomType = "entire"
	RoomTypePrivate RoomType = "private"
	RoomTypePublic  RoomType = "public"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeEntire, RoomTypePrivate, RoomTypePublic:
		return true
	}
	return false
}

type BathroomType string

const (
	BathroomPrivate BathroomType = "private"
	BathroomPublic  BathroomType = "public"
)

func (t BathroomType) Valid() bool {
	return t == BathroomPrivate || t == BathroomPublic
}

// BedType names a kind of bed, e.g. "queen". The accepted values live in
// the catalog.
type BedType string

type Bed struct {
	Type  BedType `json:"type"`
	Count int     `json:"count"`
}

// Bedroom is one entry of the bed layout. IDs are 1-based and follow the
// bedroom's position.
type Bedroom struct {
	ID   int   `json:"id"`
	Beds []Bed `json:"beds"`
}

// State is one snapshot of the registration form. Nil pointers mean the
// host has not chosen a value yet.
type State struct {
	LargeBuildingType *string   `json:"largeBuildingType"`
	BuildingType      *string   `json:"buildingType"`
	RoomType          *RoomType `json:"roomType"`
	IsSetUpForGuest   *bool     `json:"isSetUpForGuest"`

	MaximumGuestCount int       `json:"maximumGuestCount"`
	BedroomCount      int       `json:"bedroomCount"`
	BedCount          int       `json:"bedCount"`
	BedList           []Bedroom `json:"bedList"`
	PublicBedList     []Bed     `json:"publicBedList"`

	BathroomCount int           `json:"bathroomCount"`
	BathroomType  *BathroomType `json:"bathroomType"`

	Country       string  `json:"country"`
	City          string  `json:"city"`
	District      string  `json:"district"`
	StreetAddress string  `json:"streetAddress"`
	DetailAddress string  `json:"detailAddress"`
	Postcode      string  `json:"postcode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	Amenities    []string `json:"amenities"`
	Conveniences []string `json:"conveniences"`
	Photos       []string `json:"photos"`

	Description string     `json:"description"`
	Title       string     `json:"title"`
	Price       int        `json:"price"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// Initial returns the empty form a new registration starts from.
func Initial() State {
	return State{
		MaximumGuestCount: 1,
		BedroomCount:      0,
		BedCount:          1,
		BedList:           []Bedroom{},
		PublicBedList:     []Bed{},
		BathroomCount:     1,
		Amenities:         []string{},
		Conveniences:      []string{},
		Photos:            []string{},
	}
}

// Store is the snapshot store specialised to the registration form.
type Store = store.Store[State]

// Action edits a registration form snapshot.
type Action = store.Action[State]

// NewStore starts an empty registration.
func NewStore() *Store {
	return store.New(Initial)
}

// RestoreStore resumes a registration from a saved snapshot.
func RestoreStore(snapshot State) *Store {
	return store.Restore(Initial, snapshot)
}

// Dispatcher is what wizard steps need from a store.
type Dispatcher interface {
	State() State
	Dispatch(Action) State
}
