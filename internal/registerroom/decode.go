package registerroom

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownAction  = errors.New("registerroom: unknown action")
	ErrInvalidPayload = errors.New("registerroom: invalid payload")
)

// WireAction is an action as clients send it, e.g.
// {"type":"setBedroomCount","payload":3}.
type WireAction struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// BedTypeCount is the payload of setBedTypeCount and setPublicBedTypeCount.
// BedroomID is ignored for the public list.
type BedTypeCount struct {
	BedroomID int     `json:"bedroomId"`
	Type      BedType `json:"type"`
	Count     int     `json:"count"`
}

type decoder func(json.RawMessage) (Action, error)

func payload[T any](build func(T) Action) decoder {
	return func(raw json.RawMessage) (Action, error) {
		var v T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return Action{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
			}
		}
		return build(v), nil
	}
}

var decoders = map[string]decoder{
	TypeSetLargeBuildingType: payload(SetLargeBuildingType),
	TypeSetBuildingType:      payload(SetBuildingType),
	TypeSetRoomType: func(raw json.RawMessage) (Action, error) {
		var v RoomType
		if err := json.Unmarshal(raw, &v); err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if v != "" && !v.Valid() {
			return Action{}, fmt.Errorf("%w: room type %q", ErrInvalidPayload, v)
		}
		return SetRoomType(v), nil
	},
	TypeSetIsSetUpForGuest:   payload(SetIsSetUpForGuest),
	TypeSetMaximumGuestCount: payload(SetMaximumGuestCount),
	TypeSetBedroomCount:      payload(SetBedroomCount),
	TypeSetBedCount:          payload(SetBedCount),
	TypeSetBedTypeCount: payload(func(p BedTypeCount) Action {
		return SetBedTypeCount(p.BedroomID, p.Type, p.Count)
	}),
	TypeSetPublicBedTypeCount: payload(func(p BedTypeCount) Action {
		return SetPublicBedTypeCount(p.Type, p.Count)
	}),
	TypeSetBathroomCount: payload(SetBathroomCount),
	TypeSetBathroomType: func(raw json.RawMessage) (Action, error) {
		var v BathroomType
		if err := json.Unmarshal(raw, &v); err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if v != "" && !v.Valid() {
			return Action{}, fmt.Errorf("%w: bathroom type %q", ErrInvalidPayload, v)
		}
		return SetBathroomType(v), nil
	},
	TypeSetCountry:       payload(SetCountry),
	TypeSetCity:          payload(SetCity),
	TypeSetDistrict:      payload(SetDistrict),
	TypeSetStreetAddress: payload(SetStreetAddress),
	TypeSetDetailAddress: payload(SetDetailAddress),
	TypeSetPostcode:      payload(SetPostcode),
	TypeSetLatitude:      payload(SetLatitude),
	TypeSetLongitude:     payload(SetLongitude),
	TypeSetAddress:       payload(SetAddress),
	TypeSetAmenities:     payload(SetAmenities),
	TypeSetConveniences:  payload(SetConveniences),
	TypeSetPhotos:        payload(SetPhotos),
	TypeSetDescription:   payload(SetDescription),
	TypeSetTitle:         payload(SetTitle),
	TypeSetPrice:         payload(SetPrice),
	TypeSetStartDate:     payload(SetStartDate),
	TypeSetEndDate:       payload(SetEndDate),
	TypeReset:            func(json.RawMessage) (Action, error) { return Reset(), nil },
}

// ParseAction turns a wire action into a dispatchable one.
func ParseAction(typ string, raw json.RawMessage) (Action, error) {
	dec, ok := decoders[typ]
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, typ)
	}
	return dec(raw)
}

// Decode is ParseAction for a WireAction.
func (w WireAction) Decode() (Action, error) {
	return ParseAction(w.Type, w.Payload)
}
