// Package searchroom holds the query a guest builds in the room search bar.
package searchroom

import (
	"net/url"
	"strconv"
	"time"

	"room-service/internal/store"
)

type State struct {
	Location      string     `json:"location"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	CheckInDate   *time.Time `json:"checkInDate"`
	CheckOutDate  *time.Time `json:"checkOutDate"`
	AdultCount    int        `json:"adultCount"`
	ChildrenCount int        `json:"childrenCount"`
	InfantsCount  int        `json:"infantsCount"`
}

func Initial() State {
	return State{AdultCount: 1}
}

type (
	Store  = store.Store[State]
	Action = store.Action[State]
)

func NewStore() *Store {
	return store.New(Initial)
}

func SetLocation(v string) Action {
	return store.NewAction("setLocation", func(s State) State {
		s.Location = v
		return s
	})
}

func SetLatitude(v float64) Action {
	return store.NewAction("setLatitude", func(s State) State {
		s.Latitude = v
		return s
	})
}

func SetLongitude(v float64) Action {
	return store.NewAction("setLongitude", func(s State) State {
		s.Longitude = v
		return s
	})
}

// SetPlace replaces the location text and its coordinates together.
func SetPlace(location string, latitude, longitude float64) Action {
	return store.NewAction("setPlace", func(s State) State {
		s.Location = location
		s.Latitude = latitude
		s.Longitude = longitude
		return s
	})
}

func SetCheckInDate(t *time.Time) Action {
	return store.NewAction("setCheckInDate", func(s State) State {
		s.CheckInDate = t
		return s
	})
}

func SetCheckOutDate(t *time.Time) Action {
	return store.NewAction("setCheckOutDate", func(s State) State {
		s.CheckOutDate = t
		return s
	})
}

func SetAdultCount(n int) Action {
	return store.NewAction("setAdultCount", func(s State) State {
		s.AdultCount = max(n, 0)
		return s
	})
}

func SetChildrenCount(n int) Action {
	return store.NewAction("setChildrenCount", func(s State) State {
		s.ChildrenCount = max(n, 0)
		return s
	})
}

func SetInfantsCount(n int) Action {
	return store.NewAction("setInfantsCount", func(s State) State {
		s.InfantsCount = max(n, 0)
		return s
	})
}

// Query encodes the search as GET /api/rooms parameters. Empty values are
// left out.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Location != "" {
		q.Set("location", s.Location)
	}
	if s.Latitude != 0 || s.Longitude != 0 {
		q.Set("latitude", strconv.FormatFloat(s.Latitude, 'f', -1, 64))
		q.Set("longitude", strconv.FormatFloat(s.Longitude, 'f', -1, 64))
	}
	if s.CheckInDate != nil {
		q.Set("checkInDate", s.CheckInDate.Format(time.DateOnly))
	}
	if s.CheckOutDate != nil {
		q.Set("checkOutDate", s.CheckOutDate.Format(time.DateOnly))
	}
	if guests := s.AdultCount + s.ChildrenCount; guests > 0 {
		q.Set("guests", strconv.Itoa(guests))
	}
	return q
}
