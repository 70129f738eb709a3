package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"room-service/internal/catalog"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/wizard"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var (
	// ErrHostMismatch is returned when a request acts for another host.
	ErrHostMismatch = errors.New("service: host does not match token")
	// ErrInvalidForm is returned when the form names options the catalog
	// does not offer or its bed layout is malformed.
	ErrInvalidForm = errors.New("service: invalid form")
)

// RoomStore is the persistence RoomService needs.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetFiltered(ctx context.Context, f model.RoomFilter) ([]model.Room, error)
}

// RoomService registers finished forms as rooms and lists them.
type RoomService struct {
	rooms   RoomStore
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewRoomService(rooms RoomStore, c *catalog.Catalog) *RoomService {
	return &RoomService{rooms: rooms, catalog: c, now: time.Now}
}

// Register checks that every wizard step is complete and stores the room
// for hostID. req.HostID must be the authenticated host.
func (s *RoomService) Register(ctx context.Context, hostID int64, req model.RegisterRoomRequest) (*model.Room, error) {
	if req.HostID != hostID {
		return nil, ErrHostMismatch
	}
	if err := wizard.Validate(req.State); err != nil {
		return nil, fmt.Errorf("RoomService.Register: %w", err)
	}
	if err := s.checkOptions(req.State); err != nil {
		return nil, fmt.Errorf("RoomService.Register: %w", err)
	}

	room := model.NewRoom(uuid.NewString(), hostID, req.State, s.now().UTC())
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("RoomService.Register: %w", err)
	}
	return room, nil
}

func (s *RoomService) checkOptions(st registerroom.State) error {
	if err := st.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	large := *st.LargeBuildingType
	if !s.catalog.IsBuildingType(large, *st.BuildingType) {
		return fmt.Errorf("%w: building type %q of %q", ErrInvalidForm, *st.BuildingType, large)
	}
	if st.Country != "" && !s.catalog.IsCountry(st.Country) {
		return fmt.Errorf("%w: country %q", ErrInvalidForm, st.Country)
	}
	if bad, ok := firstUnknownBed(s.catalog, st); ok {
		return fmt.Errorf("%w: bed type %q", ErrInvalidForm, bad)
	}
	return nil
}

func firstUnknownBed(c *catalog.Catalog, st registerroom.State) (registerroom.BedType, bool) {
	beds := lo.FlatMap(st.BedList, func(b registerroom.Bedroom, _ int) []registerroom.Bed { return b.Beds })
	beds = append(beds, st.PublicBedList...)
	bed, ok := lo.Find(beds, func(b registerroom.Bed) bool { return !c.IsBedType(string(b.Type)) })
	return bed.Type, ok
}

func (s *RoomService) Get(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("RoomService.Get: %w", err)
	}
	return room, nil
}

// List returns rooms matching f. A missing limit means 20; at most 100.
func (s *RoomService) List(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = defaultListLimit
	case f.Limit > maxListLimit:
		f.Limit = maxListLimit
	}
	f.Offset = max(f.Offset, 0)

	rooms, err := s.rooms.GetFiltered(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("RoomService.List: %w", err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}
