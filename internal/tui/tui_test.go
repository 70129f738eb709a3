package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/search"
	"room-service/internal/searchroom"
)

type fakeSubmitter struct {
	got    []registerroom.State
	hostID int64
	err    error
}

func (f *fakeSubmitter) RegisterRoom(_ context.Context, s registerroom.State, hostID int64) (*model.Room, error) {
	f.got = append(f.got, s)
	f.hostID = hostID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Room{ID: "r1", Title: s.Title}, nil
}

type fakeMaps struct {
	predictions []geo.Prediction
	place       geo.Place
	info        geo.LocationInfo
}

func (f *fakeMaps) SearchPlaces(context.Context, string) ([]geo.Prediction, error) {
	return f.predictions, nil
}

func (f *fakeMaps) GetPlace(context.Context, string) (geo.Place, error) {
	return f.place, nil
}

func (f *fakeMaps) GetLocationInfo(context.Context, geo.Coordinates) (geo.LocationInfo, error) {
	return f.info, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func ptr[T any](v T) *T { return &v }

func completeForm() registerroom.State {
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	s := registerroom.Initial()
	s.LargeBuildingType = ptr("독특한 숙소")
	s.BuildingType = ptr("트리하우스")
	s.RoomType = ptr(registerroom.RoomTypeEntire)
	s.IsSetUpForGuest = ptr(true)
	s.BathroomType = ptr(registerroom.BathroomPrivate)
	s.Country, s.City, s.District, s.StreetAddress, s.Postcode = "대한민국", "강원특별자치도", "평창군", "올림픽로 1", "25342"
	s.Latitude, s.Longitude = 37.37, 128.39
	s.Photos = []string{"/api/photos/t1"}
	s.Description = "숲속 트리하우스"
	s.Title = "평창 트리하우스"
	s.Price = 150000
	s.StartDate, s.EndDate = &start, &end
	return s
}

func TestWizardModel_BuildingScreen(t *testing.T) {
	form := registerroom.NewStore()
	m := NewWizardModel(form, WizardOptions{Catalog: catalog.Default()})

	press(m, "right")
	s := form.State()
	require.NotNil(t, s.LargeBuildingType)
	assert.Equal(t, "아파트", *s.LargeBuildingType)
	assert.Equal(t, "아파트", *s.BuildingType)

	press(m, "ctrl+n")
	assert.Equal(t, 0, m.cur)
	assert.Contains(t, m.View(), "필수 항목")

	press(m, "tab", "tab", "right", "tab", "right")
	s = form.State()
	assert.Equal(t, registerroom.RoomTypeEntire, *s.RoomType)
	assert.True(t, *s.IsSetUpForGuest)

	press(m, "ctrl+n")
	assert.Equal(t, "bedrooms", m.screen().step.Name())
}

func TestWizardModel_BedroomsScreen(t *testing.T) {
	form := registerroom.NewStore()
	m := NewWizardModel(form, WizardOptions{})
	m.cur = 1
	m.syncInput()

	press(m, "backspace", "4", "enter")
	assert.Equal(t, 4, form.State().MaximumGuestCount)

	press(m, "tab", "backspace", "2", "enter")
	assert.Len(t, form.State().BedList, 2)

	press(m, "tab", "tab", "1 queen 1", "enter")
	assert.Equal(t, []registerroom.Bed{{Type: "queen", Count: 1}}, form.State().BedList[0].Beds)

	press(m, "1 trampoline 1", "enter")
	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "trampoline")

	press(m, "tab", "sofa 1", "enter")
	assert.Equal(t, []registerroom.Bed{{Type: "sofa", Count: 1}}, form.State().PublicBedList)
}

func TestWizardModel_NumberInputRejectsText(t *testing.T) {
	form := registerroom.NewStore()
	m := NewWizardModel(form, WizardOptions{})
	m.cur = 1
	m.syncInput()

	press(m, "backspace", "many", "enter")
	assert.Error(t, m.err)
	assert.Equal(t, 1, form.State().MaximumGuestCount)
}

func TestWizardModel_UseCurrentLocation(t *testing.T) {
	form := registerroom.NewStore()
	maps := &fakeMaps{info: geo.LocationInfo{Country: "대한민국", City: "서울특별시", District: "종로구",
		StreetAddress: "사직로 161", Postcode: "03045", Latitude: 37.578, Longitude: 126.977}}
	m := NewWizardModel(form, WizardOptions{
		Locator:  &geo.StaticLocator{At: &geo.Coordinates{Latitude: 37.578, Longitude: 126.977}},
		Geocoder: maps,
	})
	m.cur = 3

	cmd := press(m, "ctrl+l")
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m.Update(cmd())
	assert.False(t, m.busy)
	assert.Equal(t, "종로구", form.State().District)
	assert.Equal(t, 126.977, form.State().Longitude)
}

func TestWizardModel_UseCurrentLocationWithoutDevice(t *testing.T) {
	form := registerroom.NewStore()
	m := NewWizardModel(form, WizardOptions{Geocoder: &fakeMaps{}})
	m.cur = 3

	cmd := press(m, "ctrl+l")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.ErrorIs(t, m.err, geo.ErrLocationUnavailable)
	assert.Equal(t, registerroom.Initial(), form.State())
}

func TestWizardModel_Submit(t *testing.T) {
	sub := &fakeSubmitter{}
	form := registerroom.RestoreStore(completeForm())
	m := NewWizardModel(form, WizardOptions{Submitter: sub, HostID: 12})
	m.cur = len(m.screens) - 1

	assert.Contains(t, m.View(), "평창 트리하우스")

	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	_, quit := m.Update(cmd())
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())

	require.Len(t, sub.got, 1)
	assert.Equal(t, int64(12), sub.hostID)
	assert.Equal(t, "r1", m.Room().ID)
	assert.Equal(t, "평창 트리하우스", sub.got[0].Title)
	assert.Equal(t, registerroom.Initial(), form.State())
}

func TestWizardModel_SubmitBlockedOrFailed(t *testing.T) {
	sub := &fakeSubmitter{}
	incomplete := completeForm()
	incomplete.Photos = []string{}
	m := NewWizardModel(registerroom.RestoreStore(incomplete), WizardOptions{Submitter: sub})
	m.cur = len(m.screens) - 1

	assert.Nil(t, press(m, "enter"))
	assert.Empty(t, sub.got)
	assert.Contains(t, m.err.Error(), "photo")

	sub.err = errors.New("502 bad gateway")
	m = NewWizardModel(registerroom.RestoreStore(completeForm()), WizardOptions{Submitter: sub})
	m.cur = len(m.screens) - 1
	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	assert.Nil(t, next)
	assert.Nil(t, m.Room())
	assert.Contains(t, m.View(), "502 bad gateway")
}

// nextSnapshot runs the model's wait command until it yields a snapshot
// matching want.
func nextSnapshot(t *testing.T, m *SearchModel, want func(search.Snapshot) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		msgs := make(chan tea.Msg, 1)
		go func() { msgs <- m.waitForSnapshot()() }()
		select {
		case msg := <-msgs:
			m.Update(msg)
			if want(m.snap) {
				return
			}
		case <-deadline:
			t.Fatalf("no matching snapshot, last: %+v", m.snap)
		}
	}
}

func TestSearchModel_TypeAndSelect(t *testing.T) {
	maps := &fakeMaps{
		predictions: []geo.Prediction{{Description: "서울역", PlaceID: "p1"}, {Description: "서울숲", PlaceID: "p2"}},
		place:       geo.Place{Location: "서울숲", Latitude: 37.544, Longitude: 127.037},
	}
	query := searchroom.NewStore()
	m := NewSearchModel(query, search.Options{Debounce: 5 * time.Millisecond, Searcher: maps, Resolver: maps}, nil)
	t.Cleanup(m.Close)

	m.Init()
	nextSnapshot(t, m, func(s search.Snapshot) bool { return s.PopupOpen })
	assert.Contains(t, m.View(), search.NearbyLabel)

	press(m, "서울")
	nextSnapshot(t, m, func(s search.Snapshot) bool { return s.Phase == search.ResultsShown })
	view := m.View()
	assert.Contains(t, view, "서울역")
	assert.Contains(t, view, "서울숲")

	cmd := press(m, "down", "enter")
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.NoError(t, m.err)

	s := query.State()
	assert.Equal(t, "서울숲", s.Location)
	assert.Equal(t, 127.037, s.Longitude)
}

func TestSearchModel_EscClosesPopupThenQuits(t *testing.T) {
	m := NewSearchModel(searchroom.NewStore(), search.Options{Debounce: time.Millisecond, Searcher: &fakeMaps{}}, nil)
	t.Cleanup(m.Close)
	m.Init()
	nextSnapshot(t, m, func(s search.Snapshot) bool { return s.PopupOpen })

	assert.Nil(t, press(m, "esc"))
	nextSnapshot(t, m, func(s search.Snapshot) bool { return !s.PopupOpen })

	cmd := press(m, "esc")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

type fakeLister struct{ got string }

func (f *fakeLister) ListRooms(_ context.Context, q url.Values) ([]model.Room, error) {
	f.got = q.Encode()
	return []model.Room{{Title: "한옥 스테이", City: "서울특별시", District: "종로구", Price: 120000}}, nil
}

func TestSearchModel_SearchRooms(t *testing.T) {
	query := searchroom.NewStore()
	query.Dispatch(searchroom.SetPlace("종로구", 37.57, 126.98))
	lister := &fakeLister{}
	m := NewSearchModel(query, search.Options{Searcher: &fakeMaps{}}, lister)
	t.Cleanup(m.Close)

	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.True(t, strings.Contains(lister.got, "location="), lister.got)
	assert.Contains(t, m.View(), "한옥 스테이")
}
