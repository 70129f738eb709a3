package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/catalog"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/repository"
	"room-service/internal/wizard"
)

func TestRoomService_Register(t *testing.T) {
	rooms := newFakeRooms()
	svc := NewRoomService(rooms, catalog.Default())

	room, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: completeForm(), HostID: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, room.ID)
	assert.Equal(t, int64(7), room.HostID)
	assert.Equal(t, "로프트", room.BuildingType)
	assert.Len(t, room.BedList.V, 2)
	assert.Contains(t, rooms.rooms, room.ID)
}

func TestRoomService_RegisterHostMismatch(t *testing.T) {
	rooms := newFakeRooms()
	svc := NewRoomService(rooms, catalog.Default())

	_, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: completeForm(), HostID: 8})
	assert.ErrorIs(t, err, ErrHostMismatch)
	assert.Empty(t, rooms.rooms)
}

func TestRoomService_RegisterIncompleteForm(t *testing.T) {
	svc := NewRoomService(newFakeRooms(), catalog.Default())

	form := completeForm()
	form.Title = ""
	_, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: form, HostID: 7})

	assert.ErrorIs(t, err, wizard.ErrStepInvalid)
	var stepErr *wizard.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "title", stepErr.Step)
}

func TestRoomService_RegisterUnknownOptions(t *testing.T) {
	svc := NewRoomService(newFakeRooms(), catalog.Default())

	form := completeForm()
	form.BuildingType = ptr("성")
	_, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: form, HostID: 7})
	assert.ErrorIs(t, err, ErrInvalidForm)

	form = completeForm()
	form.PublicBedList = append(form.PublicBedList, form.BedList[0].Beds[0])
	form.PublicBedList[0].Type = "trampoline"
	_, err = svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: form, HostID: 7})
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestRoomService_RegisterMalformedForm(t *testing.T) {
	villa := registerroom.RoomType("villa")
	outdoor := registerroom.BathroomType("outdoor")

	tests := []struct {
		name   string
		mutate func(*registerroom.State)
	}{
		{"room type", func(s *registerroom.State) { s.RoomType = &villa }},
		{"bathroom type", func(s *registerroom.State) { s.BathroomType = &outdoor }},
		{"bedroom ids", func(s *registerroom.State) {
			s.BedList[0].ID = 7
			s.BedList[1].ID = 7
		}},
		{"bed type twice in a bedroom", func(s *registerroom.State) {
			s.BedList[0].Beds = []registerroom.Bed{{Type: "queen", Count: 2}, {Type: "queen", Count: 3}}
		}},
		{"zero bed count", func(s *registerroom.State) {
			s.BedList[0].Beds = append(s.BedList[0].Beds, registerroom.Bed{Type: "king", Count: 0})
		}},
		{"negative bed count", func(s *registerroom.State) {
			s.BedList[1].Beds = []registerroom.Bed{{Type: "single", Count: -4}}
		}},
		{"public bed type twice", func(s *registerroom.State) {
			s.PublicBedList = []registerroom.Bed{{Type: "sofa", Count: 1}, {Type: "sofa", Count: 1}}
		}},
		{"zero public bed count", func(s *registerroom.State) {
			s.PublicBedList = []registerroom.Bed{{Type: "sofa", Count: 0}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := newFakeRooms()
			svc := NewRoomService(rooms, catalog.Default())

			form := completeForm()
			tt.mutate(&form)
			_, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: form, HostID: 7})

			assert.ErrorIs(t, err, ErrInvalidForm)
			assert.ErrorIs(t, err, registerroom.ErrBrokenInvariant)
			assert.Empty(t, rooms.rooms)
		})
	}
}

func TestRoomService_RegisterStoreFailure(t *testing.T) {
	rooms := newFakeRooms()
	rooms.err = errors.New("connection reset")
	svc := NewRoomService(rooms, catalog.Default())

	_, err := svc.Register(context.Background(), 7, model.RegisterRoomRequest{State: completeForm(), HostID: 7})
	assert.ErrorContains(t, err, "connection reset")
}

func TestRoomService_ListClampsPaging(t *testing.T) {
	rooms := newFakeRooms()
	svc := NewRoomService(rooms, catalog.Default())
	ctx := context.Background()

	list, err := svc.List(ctx, model.RoomFilter{})
	require.NoError(t, err)
	assert.NotNil(t, list)

	_, err = svc.List(ctx, model.RoomFilter{Limit: 1000, Offset: -5})
	require.NoError(t, err)

	require.Len(t, rooms.filters, 2)
	assert.Equal(t, 20, rooms.filters[0].Limit)
	assert.Equal(t, 100, rooms.filters[1].Limit)
	assert.Equal(t, 0, rooms.filters[1].Offset)
}

func TestRoomService_GetNotFound(t *testing.T) {
	svc := NewRoomService(newFakeRooms(), catalog.Default())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
