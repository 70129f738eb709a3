// Package client talks to the room service over HTTP. It is what the
// terminal wizard uses to submit a registration and to reach the map
// endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"room-service/internal/geo"
	"room-service/internal/model"
	"room-service/internal/registerroom"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("room service returned status %d", e.Status)
	}
	return fmt.Sprintf("room service returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: httpClient}
}

// WithToken returns a copy of c that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// RegisterRoom submits a finished form on behalf of hostID.
func (c *Client) RegisterRoom(ctx context.Context, s registerroom.State, hostID int64) (*model.Room, error) {
	var room model.Room
	body := model.RegisterRoomRequest{State: s, HostID: hostID}
	if err := c.do(ctx, http.MethodPost, "/api/rooms", nil, body, &room); err != nil {
		return nil, fmt.Errorf("Client.RegisterRoom: %w", err)
	}
	return &room, nil
}

func (c *Client) ListRooms(ctx context.Context, q url.Values) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms", q, nil, &rooms); err != nil {
		return nil, fmt.Errorf("Client.ListRooms: %w", err)
	}
	return rooms, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	in := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &out); err != nil {
		return nil, fmt.Errorf("Client.Login: %w", err)
	}
	return &out, nil
}

// SearchPlaces goes through the service's map proxy.
func (c *Client) SearchPlaces(ctx context.Context, keyword string) ([]geo.Prediction, error) {
	var out []geo.Prediction
	if err := c.do(ctx, http.MethodGet, "/api/maps/search", url.Values{"keyword": {keyword}}, nil, &out); err != nil {
		return nil, fmt.Errorf("Client.SearchPlaces: %w", err)
	}
	return out, nil
}

func (c *Client) GetPlace(ctx context.Context, placeID string) (geo.Place, error) {
	var out geo.Place
	if err := c.do(ctx, http.MethodGet, "/api/maps/place", url.Values{"placeId": {placeID}}, nil, &out); err != nil {
		return geo.Place{}, fmt.Errorf("Client.GetPlace: %w", err)
	}
	return out, nil
}

func (c *Client) GetLocationInfo(ctx context.Context, at geo.Coordinates) (geo.LocationInfo, error) {
	q := url.Values{
		"latitude":  {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
	}
	var out geo.LocationInfo
	if err := c.do(ctx, http.MethodGet, "/api/maps/location", q, nil, &out); err != nil {
		return geo.LocationInfo{}, fmt.Errorf("Client.GetLocationInfo: %w", err)
	}
	return out, nil
}

var _ geo.Service = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request to room service: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("room service call error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		log.WithFields(log.Fields{"method": method, "path": path, "status": resp.StatusCode}).Warn("room service returned unexpected status")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode room service response: %w", err)
	}
	return nil
}
