package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"room-service/internal/registerroom"
)

// Room is a registered listing as stored in the rooms table.
type Room struct {
	ID                string                             `db:"id" json:"id"`
	HostID            int64                              `db:"host_id" json:"hostId"`
	LargeBuildingType string                             `db:"large_building_type" json:"largeBuildingType"`
	BuildingType      string                             `db:"building_type" json:"buildingType"`
	RoomType          string                             `db:"room_type" json:"roomType"`
	IsSetUpForGuest   bool                               `db:"is_set_up_for_guest" json:"isSetUpForGuest"`
	MaximumGuestCount int                                `db:"maximum_guest_count" json:"maximumGuestCount"`
	BedroomCount      int                                `db:"bedroom_count" json:"bedroomCount"`
	BedCount          int                                `db:"bed_count" json:"bedCount"`
	BedList           JSONColumn[[]registerroom.Bedroom] `db:"bed_list" json:"bedList"`
	PublicBedList     JSONColumn[[]registerroom.Bed]     `db:"public_bed_list" json:"publicBedList"`
	BathroomCount     int                                `db:"bathroom_count" json:"bathroomCount"`
	BathroomType      string                             `db:"bathroom_type" json:"bathroomType"`
	Country           string                             `db:"country" json:"country"`
	City              string                             `db:"city" json:"city"`
	District          string                             `db:"district" json:"district"`
	StreetAddress     string                             `db:"street_address" json:"streetAddress"`
	DetailAddress     string                             `db:"detail_address" json:"detailAddress"`
	Postcode          string                             `db:"postcode" json:"postcode"`
	Latitude          float64                            `db:"latitude" json:"latitude"`
	Longitude         float64                            `db:"longitude" json:"longitude"`
	Amenities         pq.StringArray                     `db:"amenities" json:"amenities"`
	Conveniences      pq.StringArray                     `db:"conveniences" json:"conveniences"`
	Photos            pq.StringArray                     `db:"photos" json:"photos"`
	Description       string                             `db:"description" json:"description"`
	Title             string                             `db:"title" json:"title"`
	Price             int                                `db:"price" json:"price"`
	StartDate         time.Time                          `db:"start_date" json:"startDate"`
	EndDate           time.Time                          `db:"end_date" json:"endDate"`
	CreatedAt         time.Time                          `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time                          `db:"updated_at" json:"updatedAt"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NewRoom flattens a finished registration form into a Room.
func NewRoom(id string, hostID int64, s registerroom.State, now time.Time) *Room {
	return &Room{
		ID:                id,
		HostID:            hostID,
		LargeBuildingType: deref(s.LargeBuildingType),
		BuildingType:      deref(s.BuildingType),
		RoomType:          string(deref(s.RoomType)),
		IsSetUpForGuest:   deref(s.IsSetUpForGuest),
		MaximumGuestCount: s.MaximumGuestCount,
		BedroomCount:      s.BedroomCount,
		BedCount:          s.BedCount,
		BedList:           JSONColumn[[]registerroom.Bedroom]{V: s.BedList},
		PublicBedList:     JSONColumn[[]registerroom.Bed]{V: s.PublicBedList},
		BathroomCount:     s.BathroomCount,
		BathroomType:      string(deref(s.BathroomType)),
		Country:           s.Country,
		City:              s.City,
		District:          s.District,
		StreetAddress:     s.StreetAddress,
		DetailAddress:     s.DetailAddress,
		Postcode:          s.Postcode,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		Amenities:         s.Amenities,
		Conveniences:      s.Conveniences,
		Photos:            s.Photos,
		Description:       s.Description,
		Title:             s.Title,
		Price:             s.Price,
		StartDate:         deref(s.StartDate),
		EndDate:           deref(s.EndDate),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// JSONColumn stores V as a jsonb value.
type JSONColumn[T any] struct {
	V T
}

func (c JSONColumn[T]) Value() (driver.Value, error) {
	return json.Marshal(c.V)
}

func (c *JSONColumn[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		var zero T
		c.V = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("JSONColumn.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		return errors.New("JSONColumn.Scan: empty value")
	}
	return json.Unmarshal(raw, &c.V)
}

func (c JSONColumn[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.V)
}

func (c *JSONColumn[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &c.V)
}

// RoomFilter narrows GET /api/rooms.
type RoomFilter struct {
	Location  string
	Latitude  *float64
	Longitude *float64
	Guests    int
	Limit     int
	Offset    int
}
