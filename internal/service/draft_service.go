package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/repository"
	"room-service/internal/wizard"
)

var (
	ErrUnknownStep = errors.New("service: unknown wizard step")
	// ErrUnknownOption is returned for actions naming catalog values that
	// do not exist, such as an unknown bed type.
	ErrUnknownOption = errors.New("service: unknown option")
)

// StepStatus tells a client whether it may leave a wizard screen.
type StepStatus struct {
	Step     string `json:"step"`
	Valid    bool   `json:"valid"`
	PrevHref string `json:"prevHref"`
	NextHref string `json:"nextHref"`
}

// DraftService keeps one registration form per draft on the server and
// applies wizard actions to it.
type DraftService struct {
	drafts   repository.DraftStore
	rooms    *RoomService
	catalog  *catalog.Catalog
	geocoder geo.ReverseGeocoder
	now      func() time.Time
}

func NewDraftService(drafts repository.DraftStore, rooms *RoomService, c *catalog.Catalog, geocoder geo.ReverseGeocoder) *DraftService {
	return &DraftService{drafts: drafts, rooms: rooms, catalog: c, geocoder: geocoder, now: time.Now}
}

// Create starts an empty form for hostID.
func (s *DraftService) Create(ctx context.Context, hostID int64) (*model.Draft, error) {
	d := &model.Draft{
		ID:        uuid.NewString(),
		HostID:    hostID,
		State:     registerroom.Initial(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("DraftService.Create: %w", err)
	}
	log.WithFields(log.Fields{"draftId": d.ID, "hostId": hostID}).Info("draft created")
	return d, nil
}

func (s *DraftService) Get(ctx context.Context, hostID int64, id string) (*model.Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("DraftService.Get: %w", err)
	}
	if d.HostID != hostID {
		return nil, ErrHostMismatch
	}
	return d, nil
}

// update loads the draft, runs fn against a store holding its form and saves
// the result. Nothing is saved when fn fails.
func (s *DraftService) update(ctx context.Context, hostID int64, id string, fn func(*registerroom.Store) error) (*model.Draft, error) {
	d, err := s.Get(ctx, hostID, id)
	if err != nil {
		return nil, err
	}

	form := registerroom.RestoreStore(d.State)
	stop := registerroom.Trace(form, log.Fields{"draftId": id, "hostId": hostID})
	defer stop()

	if err := fn(form); err != nil {
		return nil, err
	}

	d.State = form.State()
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply dispatches one wire action to the draft.
func (s *DraftService) Apply(ctx context.Context, hostID int64, id string, wa registerroom.WireAction) (*model.Draft, error) {
	action, err := wa.Decode()
	if err != nil {
		return nil, fmt.Errorf("DraftService.Apply: %w", err)
	}

	d, err := s.update(ctx, hostID, id, func(form *registerroom.Store) error {
		next := action.Apply(form.State())
		if bad, ok := firstUnknownBed(s.catalog, next); ok {
			return fmt.Errorf("%w: bed type %q", ErrUnknownOption, bad)
		}
		form.Dispatch(action)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("DraftService.Apply: %w", err)
	}
	return d, nil
}

// SelectLargeBuildingType picks a category and its default building type.
func (s *DraftService) SelectLargeBuildingType(ctx context.Context, hostID int64, id, large string) (*model.Draft, error) {
	if large != "" && !s.catalog.IsLargeBuildingType(large) {
		return nil, fmt.Errorf("DraftService.SelectLargeBuildingType: %w: %q", ErrUnknownOption, large)
	}
	d, err := s.update(ctx, hostID, id, func(form *registerroom.Store) error {
		wizard.NewBuildingStep(form, s.catalog).SelectLargeBuildingType(large)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("DraftService.SelectLargeBuildingType: %w", err)
	}
	return d, nil
}

// UseCurrentLocation fills the address from the position the client's
// device reported.
func (s *DraftService) UseCurrentLocation(ctx context.Context, hostID int64, id string, at geo.Coordinates) (*model.Draft, error) {
	d, err := s.update(ctx, hostID, id, func(form *registerroom.Store) error {
		step := wizard.NewLocationStep(form, s.catalog, &geo.StaticLocator{At: &at}, s.geocoder)
		_, err := step.UseCurrentLocation(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("DraftService.UseCurrentLocation: %w", err)
	}
	return d, nil
}

// Step reports whether the draft may move past the named screen.
func (s *DraftService) Step(ctx context.Context, hostID int64, id, name string) (StepStatus, error) {
	step, ok := wizard.Lookup(name)
	if !ok {
		return StepStatus{}, fmt.Errorf("DraftService.Step: %w: %q", ErrUnknownStep, name)
	}
	d, err := s.Get(ctx, hostID, id)
	if err != nil {
		return StepStatus{}, fmt.Errorf("DraftService.Step: %w", err)
	}
	return StepStatus{
		Step:     step.Name(),
		Valid:    step.IsValid(d.State),
		PrevHref: step.PrevHref(),
		NextHref: step.NextHref(),
	}, nil
}

// Submit registers the draft as a room and discards the draft.
func (s *DraftService) Submit(ctx context.Context, hostID int64, id string) (*model.Room, error) {
	d, err := s.Get(ctx, hostID, id)
	if err != nil {
		return nil, fmt.Errorf("DraftService.Submit: %w", err)
	}

	room, err := s.rooms.Register(ctx, hostID, model.RegisterRoomRequest{State: d.State, HostID: hostID})
	if err != nil {
		return nil, fmt.Errorf("DraftService.Submit: %w", err)
	}

	if err := s.drafts.Delete(ctx, id); err != nil {
		log.WithError(err).WithField("draftId", id).Warn("submitted draft not removed")
	}
	log.WithFields(log.Fields{"draftId": id, "roomId": room.ID, "hostId": hostID}).Info("draft submitted")
	return room, nil
}

func (s *DraftService) Delete(ctx context.Context, hostID int64, id string) error {
	if _, err := s.Get(ctx, hostID, id); err != nil {
		return fmt.Errorf("DraftService.Delete: %w", err)
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return fmt.Errorf("DraftService.Delete: %w", err)
	}
	return nil
}
