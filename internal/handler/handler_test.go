package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
	"room-service/internal/repository"
	"room-service/internal/service"
)

const testSecret = "handler-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type memRooms struct {
	mu    sync.Mutex
	rooms map[string]model.Room
}

func (m *memRooms) Create(_ context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = *room
	return nil
}

func (m *memRooms) GetByID(_ context.Context, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (m *memRooms) GetFiltered(_ context.Context, f model.RoomFilter) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Room
	for _, room := range m.rooms {
		if room.MaximumGuestCount >= f.Guests {
			out = append(out, room)
		}
	}
	return out, nil
}

type memUsers struct {
	users map[string]model.User
}

func (m *memUsers) Insert(_ context.Context, u *model.User) error {
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Email] = *u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type stubMaps struct {
	predictions []geo.Prediction
	place       geo.Place
	info        geo.LocationInfo
	keywords    []string
}

func (s *stubMaps) SearchPlaces(_ context.Context, keyword string) ([]geo.Prediction, error) {
	s.keywords = append(s.keywords, keyword)
	return s.predictions, nil
}

func (s *stubMaps) GetPlace(_ context.Context, placeID string) (geo.Place, error) {
	if placeID != "p1" {
		return geo.Place{}, geo.ErrNoResults
	}
	return s.place, nil
}

func (s *stubMaps) GetLocationInfo(_ context.Context, _ geo.Coordinates) (geo.LocationInfo, error) {
	return s.info, nil
}

type memPhotos struct {
	photos map[string]*repository.Photo
}

func (m *memPhotos) UploadPhoto(_ context.Context, file io.Reader, filename, contentType string, _ int64) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	id := "photo" + string(rune('0'+len(m.photos)))
	m.photos[id] = &repository.Photo{Data: data, Filename: filename, ContentType: contentType}
	return id, nil
}

func (m *memPhotos) DownloadPhoto(_ context.Context, id string) (*repository.Photo, error) {
	p, ok := m.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type server struct {
	router *gin.Engine
	auth   *service.AuthService
	maps   *stubMaps
	rooms  *memRooms
}

func newServer(t *testing.T) *server {
	t.Helper()
	drafts := repository.NewMemoryDraftStore(time.Hour, time.Minute)
	t.Cleanup(func() { _ = drafts.Close() })

	c := catalog.Default()
	rooms := &memRooms{rooms: map[string]model.Room{}}
	maps := &stubMaps{}
	roomSvc := service.NewRoomService(rooms, c)
	auth := service.NewAuthService(&memUsers{users: map[string]model.User{}}, testSecret, time.Hour)

	router := NewRouter(Handlers{
		Rooms:  &RoomHandler{Service: roomSvc},
		Drafts: &DraftHandler{Service: service.NewDraftService(drafts, roomSvc, c, maps)},
		Auth:   &AuthHandler{Service: auth},
		Maps:   &MapHandler{Maps: maps},
		Photos: &PhotoHandler{Repo: &memPhotos{photos: map[string]*repository.Photo{}}},
	}, testSecret)
	return &server{router: router, auth: auth, maps: maps, rooms: rooms}
}

func (s *server) token(t *testing.T, hostID int64) string {
	t.Helper()
	tok, err := s.auth.IssueToken(hostID)
	require.NoError(t, err)
	return tok
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ptr[T any](v T) *T { return &v }

func completeForm() registerroom.State {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	s := registerroom.Initial()
	s.LargeBuildingType = ptr("주택")
	s.BuildingType = ptr("타운하우스")
	s.RoomType = ptr(registerroom.RoomTypePrivate)
	s.IsSetUpForGuest = ptr(false)
	s.MaximumGuestCount = 2
	s.BathroomType = ptr(registerroom.BathroomPublic)
	s.Country, s.City, s.District, s.StreetAddress, s.Postcode = "대한민국", "부산광역시", "해운대구", "해운대해변로 264", "48099"
	s.Latitude, s.Longitude = 35.158, 129.160
	s.Photos = []string{"/api/photos/photo0"}
	s.Description = "바다 앞 타운하우스의 개인실"
	s.Title = "해운대 개인실"
	s.Price = 55000
	s.StartDate, s.EndDate = &start, &end
	return s
}

func TestRegisterRoom(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/rooms", "", model.RegisterRoomRequest{State: completeForm(), HostID: 3})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/rooms", s.token(t, 4), model.RegisterRoomRequest{State: completeForm(), HostID: 3})
	assert.Equal(t, http.StatusForbidden, w.Code)

	incomplete := completeForm()
	incomplete.Price = 0
	w = s.do(t, http.MethodPost, "/api/rooms", s.token(t, 3), model.RegisterRoomRequest{State: incomplete, HostID: 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "price")

	w = s.do(t, http.MethodPost, "/api/rooms", s.token(t, 3), model.RegisterRoomRequest{State: completeForm(), HostID: 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	room := decode[model.Room](t, w)
	assert.Equal(t, "해운대 개인실", room.Title)

	w = s.do(t, http.MethodGet, "/api/rooms/"+room.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/rooms/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/rooms?guests=3", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRegisterRoom_InvalidToken(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/rooms", "not-a-token", model.RegisterRoomRequest{State: completeForm(), HostID: 3})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDraftFlow(t *testing.T) {
	s := newServer(t)
	tok := s.token(t, 9)

	w := s.do(t, http.MethodPost, "/api/register/drafts", tok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decode[model.Draft](t, w)
	base := "/api/register/drafts/" + draft.ID

	w = s.do(t, http.MethodPost, base+"/building/large-type", tok, gin.H{"largeBuildingType": "B&B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft = decode[model.Draft](t, w)
	assert.Equal(t, "B&B", *draft.State.BuildingType)

	w = s.do(t, http.MethodPost, base+"/actions", tok, gin.H{"type": "setBedroomCount", "payload": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft = decode[model.Draft](t, w)
	assert.Len(t, draft.State.BedList, 2)

	w = s.do(t, http.MethodPost, base+"/actions", tok, gin.H{"type": "launchRocket"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, base+"/steps/building", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[service.StepStatus](t, w)
	assert.False(t, status.Valid)
	assert.Equal(t, "/room/register/bedrooms", status.NextHref)

	w = s.do(t, http.MethodGet, base, s.token(t, 10), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.maps.info = geo.LocationInfo{Country: "대한민국", City: "제주특별자치도", District: "제주시", Latitude: 33.5, Longitude: 126.5}
	w = s.do(t, http.MethodPost, base+"/location/current", tok, geo.Coordinates{Latitude: 33.5, Longitude: 126.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft = decode[model.Draft](t, w)
	assert.Equal(t, "제주시", draft.State.District)

	w = s.do(t, http.MethodPost, base+"/submit", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodDelete, base, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, base, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaps(t *testing.T) {
	s := newServer(t)
	s.maps.predictions = []geo.Prediction{{Description: "서울역", PlaceID: "p1"}}
	s.maps.place = geo.Place{Location: "서울역", Latitude: 37.55, Longitude: 126.97}

	w := s.do(t, http.MethodGet, "/api/maps/search?keyword=", "", nil)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.Empty(t, s.maps.keywords)

	w = s.do(t, http.MethodGet, "/api/maps/search?keyword=%EC%84%9C%EC%9A%B8", "", nil)
	assert.JSONEq(t, `[{"description":"서울역","placeId":"p1"}]`, w.Body.String())
	assert.Equal(t, []string{"서울"}, s.maps.keywords)

	w = s.do(t, http.MethodGet, "/api/maps/place?placeId=p1", "", nil)
	assert.JSONEq(t, `{"location":"서울역","latitude":37.55,"longitude":126.97}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/maps/place?placeId=p2", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/maps/location?latitude=37.5", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/maps/location?latitude=37.5&longitude=127", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/password-check", "", gin.H{"password": "abc", "name": "kim", "email": "kim@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	check := decode[struct {
		Warnings []struct {
			Text    string `json:"text"`
			IsValid bool   `json:"isValid"`
		} `json:"warnings"`
		Valid bool `json:"valid"`
	}](t, w)
	assert.Len(t, check.Warnings, 3)
	assert.False(t, check.Valid)

	signup := gin.H{"name": "Kim", "email": "kim@example.com", "password": "harbour-view-7"}
	w = s.do(t, http.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "kim@example.com", "password": "harbour-view-7"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.AuthResponse](t, w)
	assert.NotEmpty(t, resp.Token)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "kim@example.com", "password": "nope-nope-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPhotos(t *testing.T) {
	s := newServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="room.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/register/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, 1))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	uploaded := decode[map[string]string](t, w)
	assert.Equal(t, "/api/photos/"+uploaded["id"], uploaded["url"])

	w = s.do(t, http.MethodGet, uploaded["url"], "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
}
