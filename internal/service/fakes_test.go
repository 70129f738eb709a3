package service

import (
	"context"
	"sync"
	"time"

	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/repository"
)

type fakeRooms struct {
	mu      sync.Mutex
	rooms   map[string]*model.Room
	filters []model.RoomFilter
	err     error
}

func newFakeRooms() *fakeRooms {
	return &fakeRooms{rooms: map[string]*model.Room{}}
}

func (f *fakeRooms) Create(_ context.Context, room *model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRooms) GetByID(_ context.Context, id string) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return room, nil
}

func (f *fakeRooms) GetFiltered(_ context.Context, filter model.RoomFilter) ([]model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

type fakeUsers struct {
	byEmail map[string]*model.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUsers) Insert(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeGeocoder struct {
	info geo.LocationInfo
	err  error
	got  []geo.Coordinates
}

func (f *fakeGeocoder) GetLocationInfo(_ context.Context, at geo.Coordinates) (geo.LocationInfo, error) {
	f.got = append(f.got, at)
	return f.info, f.err
}

func ptr[T any](v T) *T { return &v }

// completeForm passes every wizard step.
func completeForm() registerroom.State {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	form := registerroom.NewStore()
	for _, a := range []registerroom.Action{
		registerroom.SetLargeBuildingType("아파트"),
		registerroom.SetBuildingType("로프트"),
		registerroom.SetRoomType(registerroom.RoomTypeEntire),
		registerroom.SetIsSetUpForGuest(true),
		registerroom.SetMaximumGuestCount(4),
		registerroom.SetBedroomCount(2),
		registerroom.SetBedTypeCount(1, "queen", 1),
		registerroom.SetBedTypeCount(2, "single", 2),
		registerroom.SetBathroomCount(1),
		registerroom.SetBathroomType(registerroom.BathroomPrivate),
		registerroom.SetAddress(geo.LocationInfo{
			Country:       "대한민국",
			City:          "서울특별시",
			District:      "마포구",
			StreetAddress: "월드컵북로 396",
			Postcode:      "03925",
			Latitude:      37.579,
			Longitude:     126.889,
		}),
		registerroom.SetPhotos([]string{"/api/photos/abc"}),
		registerroom.SetDescription("한강이 보이는 조용한 로프트"),
		registerroom.SetTitle("상암동 로프트"),
		registerroom.SetPrice(90000),
		registerroom.SetStartDate(&start),
		registerroom.SetEndDate(&end),
	} {
		form.Dispatch(a)
	}
	return form.State()
}
