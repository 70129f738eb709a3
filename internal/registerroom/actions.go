package registerroom

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"room-service/internal/geo"
	"room-service/internal/store"
)

// Action type names. They double as the "type" of a wire action.
const (
	TypeSetLargeBuildingType  = "setLargeBuildingType"
	TypeSetBuildingType       = "setBuildingType"
	TypeSetRoomType           = "setRoomType"
	TypeSetIsSetUpForGuest    = "setIsSetUpForGuest"
	TypeSetMaximumGuestCount  = "setMaximumGuestCount"
	TypeSetBedroomCount       = "setBedroomCount"
	TypeSetBedCount           = "setBedCount"
	TypeSetBedTypeCount       = "setBedTypeCount"
	TypeSetPublicBedTypeCount = "setPublicBedTypeCount"
	TypeSetBathroomCount      = "setBathroomCount"
	TypeSetBathroomType       = "setBathroomType"
	TypeSetCountry            = "setCountry"
	TypeSetCity               = "setCity"
	TypeSetDistrict           = "setDistrict"
	TypeSetStreetAddress      = "setStreetAddress"
	TypeSetDetailAddress      = "setDetailAddress"
	TypeSetPostcode           = "setPostcode"
	TypeSetLatitude           = "setLatitude"
	TypeSetLongitude          = "setLongitude"
	TypeSetAddress            = "setAddress"
	TypeSetAmenities          = "setAmenities"
	TypeSetConveniences       = "setConveniences"
	TypeSetPhotos             = "setPhotos"
	TypeSetDescription        = "setDescription"
	TypeSetTitle              = "setTitle"
	TypeSetPrice              = "setPrice"
	TypeSetStartDate          = "setStartDate"
	TypeSetEndDate            = "setEndDate"
	TypeReset                 = "reset"
)

func action(typ string, reduce func(State) State) Action {
	return store.NewAction(typ, reduce)
}

// optional maps the empty string to "not chosen".
func optional[T ~string](v T) *T {
	if v == "" {
		return nil
	}
	return &v
}

func SetLargeBuildingType(v string) Action {
	return action(TypeSetLargeBuildingType, func(s State) State {
		s.LargeBuildingType = optional(v)
		return s
	})
}

func SetBuildingType(v string) Action {
	return action(TypeSetBuildingType, func(s State) State {
		s.BuildingType = optional(v)
		return s
	})
}

func SetRoomType(v RoomType) Action {
	return action(TypeSetRoomType, func(s State) State {
		s.RoomType = optional(v)
		return s
	})
}

func SetIsSetUpForGuest(v bool) Action {
	return action(TypeSetIsSetUpForGuest, func(s State) State {
		s.IsSetUpForGuest = &v
		return s
	})
}

func SetMaximumGuestCount(n int) Action {
	return action(TypeSetMaximumGuestCount, func(s State) State {
		s.MaximumGuestCount = n
		return s
	})
}

// SetBedroomCount changes the bedroom count and resizes the bed layout to
// match: trailing bedrooms are dropped, new ones are appended empty.
func SetBedroomCount(n int) Action {
	return action(TypeSetBedroomCount, func(s State) State {
		count := max(n, 0)
		s.BedroomCount = count
		s.BedList = resizeBedList(s.BedList, count)
		return s
	})
}

func resizeBedList(list []Bedroom, n int) []Bedroom {
	if n <= len(list) {
		return list[:n:n]
	}
	out := make([]Bedroom, len(list), n)
	copy(out, list)
	for id := len(list) + 1; id <= n; id++ {
		out = append(out, Bedroom{ID: id, Beds: []Bed{}})
	}
	return out
}

func SetBedCount(n int) Action {
	return action(TypeSetBedCount, func(s State) State {
		s.BedCount = n
		return s
	})
}

// SetBedTypeCount sets how many beds of type t bedroom bedroomID (1-based)
// has. Unknown bedrooms are ignored.
func SetBedTypeCount(bedroomID int, t BedType, count int) Action {
	return action(TypeSetBedTypeCount, func(s State) State {
		idx := bedroomID - 1
		if idx < 0 || idx >= len(s.BedList) {
			return s
		}
		list := slices.Clone(s.BedList)
		list[idx] = Bedroom{ID: list[idx].ID, Beds: withBedCount(list[idx].Beds, t, count)}
		s.BedList = list
		return s
	})
}

func SetPublicBedTypeCount(t BedType, count int) Action {
	return action(TypeSetPublicBedTypeCount, func(s State) State {
		s.PublicBedList = withBedCount(s.PublicBedList, t, count)
		return s
	})
}

// withBedCount keeps each bed type at most once: zero removes the entry,
// a new type is appended, an existing one is updated in place.
func withBedCount(beds []Bed, t BedType, count int) []Bed {
	count = max(count, 0)
	_, idx, found := lo.FindIndexOf(beds, func(b Bed) bool { return b.Type == t })

	switch {
	case !found && count == 0:
		return beds
	case !found:
		out := make([]Bed, len(beds), len(beds)+1)
		copy(out, beds)
		return append(out, Bed{Type: t, Count: count})
	case count == 0:
		return slices.Delete(slices.Clone(beds), idx, idx+1)
	default:
		out := slices.Clone(beds)
		out[idx].Count = count
		return out
	}
}

func SetBathroomCount(n int) Action {
	return action(TypeSetBathroomCount, func(s State) State {
		s.BathroomCount = n
		return s
	})
}

func SetBathroomType(v BathroomType) Action {
	return action(TypeSetBathroomType, func(s State) State {
		s.BathroomType = optional(v)
		return s
	})
}

func SetCountry(v string) Action {
	return action(TypeSetCountry, func(s State) State {
		s.Country = v
		return s
	})
}

func SetCity(v string) Action {
	return action(TypeSetCity, func(s State) State {
		s.City = v
		return s
	})
}

func SetDistrict(v string) Action {
	return action(TypeSetDistrict, func(s State) State {
		s.District = v
		return s
	})
}

func SetStreetAddress(v string) Action {
	return action(TypeSetStreetAddress, func(s State) State {
		s.StreetAddress = v
		return s
	})
}

func SetDetailAddress(v string) Action {
	return action(TypeSetDetailAddress, func(s State) State {
		s.DetailAddress = v
		return s
	})
}

func SetPostcode(v string) Action {
	return action(TypeSetPostcode, func(s State) State {
		s.Postcode = v
		return s
	})
}

func SetLatitude(v float64) Action {
	return action(TypeSetLatitude, func(s State) State {
		s.Latitude = v
		return s
	})
}

func SetLongitude(v float64) Action {
	return action(TypeSetLongitude, func(s State) State {
		s.Longitude = v
		return s
	})
}

// SetAddress overwrites every address field and the coordinates in one step.
func SetAddress(info geo.LocationInfo) Action {
	return action(TypeSetAddress, func(s State) State {
		s.Country = info.Country
		s.City = info.City
		s.District = info.District
		s.StreetAddress = info.StreetAddress
		s.DetailAddress = info.DetailAddress
		s.Postcode = info.Postcode
		s.Latitude = info.Latitude
		s.Longitude = info.Longitude
		return s
	})
}

func cloneStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}

func SetAmenities(v []string) Action {
	v = cloneStrings(v)
	return action(TypeSetAmenities, func(s State) State {
		s.Amenities = v
		return s
	})
}

func SetConveniences(v []string) Action {
	v = cloneStrings(v)
	return action(TypeSetConveniences, func(s State) State {
		s.Conveniences = v
		return s
	})
}

func SetPhotos(v []string) Action {
	v = cloneStrings(v)
	return action(TypeSetPhotos, func(s State) State {
		s.Photos = v
		return s
	})
}

func SetDescription(v string) Action {
	return action(TypeSetDescription, func(s State) State {
		s.Description = v
		return s
	})
}

func SetTitle(v string) Action {
	return action(TypeSetTitle, func(s State) State {
		s.Title = v
		return s
	})
}

func SetPrice(v int) Action {
	return action(TypeSetPrice, func(s State) State {
		s.Price = v
		return s
	})
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func SetStartDate(t *time.Time) Action {
	t = copyTime(t)
	return action(TypeSetStartDate, func(s State) State {
		s.StartDate = t
		return s
	})
}

func SetEndDate(t *time.Time) Action {
	t = copyTime(t)
	return action(TypeSetEndDate, func(s State) State {
		s.EndDate = t
		return s
	})
}

// Reset discards everything the host entered.
func Reset() Action {
	return action(TypeReset, func(State) State {
		return Initial()
	})
}
