package geo

import (
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
)

const DefaultGoogleBaseURL = "https://maps.googleapis.com"

// GoogleClient implements Service on top of the Google Maps web services.
type GoogleClient struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

func NewGoogleClient(apiKey, baseURL string, httpClient *http.Client) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleClient{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: "ko",
		http:     httpClient,
	}
}

type googleStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (s googleStatus) err() error {
	switch s.Status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return ErrNoResults
	default:
		return fmt.Errorf("google maps status %s: %s", s.Status, s.ErrorMessage)
	}
}

type googleLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleGeometry struct {
	Location googleLatLng `json:"location"`
}

type googleAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// SearchPlaces calls the place autocomplete API.
func (c *GoogleClient) SearchPlaces(ctx context.Context, keyword string) ([]Prediction, error) {
	var body struct {
		googleStatus
		Predictions []struct {
			Description string `json:"description"`
			PlaceID     string `json:"place_id"`
		} `json:"predictions"`
	}
	q := url.Values{"input": {keyword}}
	if err := c.get(ctx, "/maps/api/place/autocomplete/json", q, &body); err != nil {
		return nil, fmt.Errorf("GoogleClient.SearchPlaces: %w", err)
	}
	if err := body.err(); err != nil {
		if errors.Is(err, ErrNoResults) {
			return []Prediction{}, nil
		}
		return nil, fmt.Errorf("GoogleClient.SearchPlaces: %w", err)
	}

	out := make([]Prediction, 0, len(body.Predictions))
	for _, p := range body.Predictions {
		out = append(out, Prediction{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}

// GetPlace calls the place details API.
func (c *GoogleClient) GetPlace(ctx context.Context, placeID string) (Place, error) {
	var body struct {
		googleStatus
		Result struct {
			FormattedAddress string         `json:"formatted_address"`
			Geometry         googleGeometry `json:"geometry"`
		} `json:"result"`
	}
	q := url.Values{"place_id": {placeID}, "fields": {"formatted_address,geometry"}}
	if err := c.get(ctx, "/maps/api/place/details/json", q, &body); err != nil {
		return Place{}, fmt.Errorf("GoogleClient.GetPlace: %w", err)
	}
	if err := body.err(); err != nil {
		return Place{}, fmt.Errorf("GoogleClient.GetPlace: %w", err)
	}
	return Place{
		Location:  body.Result.FormattedAddress,
		Latitude:  body.Result.Geometry.Location.Lat,
		Longitude: body.Result.Geometry.Location.Lng,
	}, nil
}

// GetLocationInfo reverse geocodes at into a structured address.
func (c *GoogleClient) GetLocationInfo(ctx context.Context, at Coordinates) (LocationInfo, error) {
	var body struct {
		googleStatus
		Results []struct {
			AddressComponents []googleAddressComponent `json:"address_components"`
			Geometry          googleGeometry           `json:"geometry"`
		} `json:"results"`
	}
	latlng := strconv.FormatFloat(at.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(at.Longitude, 'f', -1, 64)
	if err := c.get(ctx, "/maps/api/geocode/json", url.Values{"latlng": {latlng}}, &body); err != nil {
		return LocationInfo{}, fmt.Errorf("GoogleClient.GetLocationInfo: %w", err)
	}
	if err := body.err(); err != nil {
		return LocationInfo{}, fmt.Errorf("GoogleClient.GetLocationInfo: %w", err)
	}
	if len(body.Results) == 0 {
		return LocationInfo{}, fmt.Errorf("GoogleClient.GetLocationInfo: %w", ErrNoResults)
	}

	first := body.Results[0]
	info := addressFromComponents(first.AddressComponents)
	info.Latitude = first.Geometry.Location.Lat
	info.Longitude = first.Geometry.Location.Lng
	return info, nil
}

func addressFromComponents(components []googleAddressComponent) LocationInfo {
	var (
		info                     LocationInfo
		route, number            string
		premise, subpremise      string
		locality, sublocality    string
		adminLevel1, adminLevel2 string
	)
	for _, comp := range components {
		for _, typ := range comp.Types {
			switch typ {
			case "country":
				info.Country = comp.LongName
			case "administrative_area_level_1":
				adminLevel1 = comp.LongName
			case "administrative_area_level_2":
				adminLevel2 = comp.LongName
			case "locality":
				locality = comp.LongName
			case "sublocality_level_1":
				sublocality = comp.LongName
			case "route":
				route = comp.LongName
			case "street_number":
				number = comp.LongName
			case "premise":
				premise = comp.LongName
			case "subpremise":
				subpremise = comp.LongName
			case "postal_code":
				info.Postcode = comp.LongName
			}
		}
	}

	info.City = firstNonEmpty(adminLevel1, locality)
	info.District = firstNonEmpty(sublocality, adminLevel2, locality)
	if info.District == info.City {
		info.District = firstNonEmpty(sublocality, adminLevel2)
	}
	info.StreetAddress = strings.TrimSpace(route + " " + number)
	info.DetailAddress = strings.TrimSpace(premise + " " + subpremise)
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *GoogleClient) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", c.apiKey)
	q.Set("language", c.language)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to maps service: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("maps service call error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.WithFields(log.Fields{"path": path, "status": resp.StatusCode}).Warn("maps service returned unexpected status")
		return fmt.Errorf("maps service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode maps service response: %w", err)
	}
	return nil
}
