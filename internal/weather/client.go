package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"

	// MinQueryLength is the shortest search string sent to the geocoder
	MinQueryLength = 3
	geocodeLimit   = 5
)

// Client handles OpenWeatherMap API interactions
type Client struct {
	APIKey     string
	BaseURL    string
	GeoURL     string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new OpenWeatherMap API client
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		GeoURL:    defaultGeoURL,
		UserAgent: "wthr-dash/1.0",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("appid", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// *url.Error prints the full URL, which carries the appid
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenWeatherMap API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", lat))
	params.Set("lon", fmt.Sprintf("%.4f", lon))
	// Readings are always fetched in Celsius and m/s; conversion is a display concern
	params.Set("units", "metric")
	return params
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentResponse represents the OpenWeatherMap /weather response
type CurrentResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []condition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`
}

// Current fetches current conditions for a lat/lon
func (c *Client) Current(ctx context.Context, lat, lon float64) (*CurrentConditions, error) {
	data, err := c.get(ctx, c.BaseURL+"/weather", coordParams(lat, lon))
	if err != nil {
		return nil, err
	}

	var resp CurrentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	cur := &CurrentConditions{
		Name:        resp.Name,
		Country:     resp.Sys.Country,
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Time:        time.Unix(resp.Dt, 0),
	}
	if len(resp.Weather) > 0 {
		cur.Icon = resp.Weather[0].Icon
		cur.Description = resp.Weather[0].Description
	}
	return cur, nil
}

// ForecastResponse represents the OpenWeatherMap /forecast response (3-hour steps)
type ForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []condition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// Forecast fetches the forecast series for a lat/lon
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error) {
	data, err := c.get(ctx, c.BaseURL+"/forecast", coordParams(lat, lon))
	if err != nil {
		return nil, err
	}

	var resp ForecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	samples := make([]ForecastSample, 0, len(resp.List))
	for _, item := range resp.List {
		s := ForecastSample{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.Icon = item.Weather[0].Icon
			s.Description = item.Weather[0].Description
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// GeocodeResponse represents the OpenWeatherMap /geo/1.0/direct response
type GeocodeResponse []struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

// Geocode returns up to five candidate locations for a free-text query.
// Queries shorter than MinQueryLength return no candidates without a request.
func (c *Client) Geocode(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Location{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", geocodeLimit))

	data, err := c.get(ctx, c.GeoURL+"/direct", params)
	if err != nil {
		return nil, err
	}

	var resp GeocodeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(resp))
	for _, r := range resp {
		if len(locations) == geocodeLimit {
			break
		}
		name := r.Name
		if r.Country != "" {
			name = fmt.Sprintf("%s, %s", r.Name, r.Country)
		}
		locations = append(locations, Location{Name: name, Lat: r.Lat, Lon: r.Lon})
	}
	return locations, nil
}
