package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockRoundTripper is a custom RoundTripper for testing
type mockRoundTripper struct {
	handler http.Handler
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	m.handler.ServeHTTP(rec, req)
	resp := rec.Result()
	return resp, nil
}

func newTestClient(handler http.Handler) *Client {
	client := NewClient("test-key")
	client.UserAgent = "test-agent"
	client.HTTPClient = &http.Client{
		Transport: &mockRoundTripper{handler: handler},
	}
	return client
}

const currentJSON = `{
	"dt": 1710072000,
	"main": {"temp": 20.4, "feels_like": 19.8, "humidity": 64},
	"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
	"wind": {"speed": 3.6},
	"sys": {"country": "FR"},
	"name": "Paris"
}`

const forecastJSON = `{
	"list": [
		{"dt": 1710072000, "main": {"temp": 12.1, "humidity": 70}, "weather": [{"description": "light rain", "icon": "10d"}], "wind": {"speed": 4.2}},
		{"dt": 1710082800, "main": {"temp": 14.3, "humidity": 65}, "weather": [{"description": "overcast clouds", "icon": "04d"}], "wind": {"speed": 3.1}}
	]
}`

func TestCurrent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "48.8500" || q.Get("lon") != "2.3500" {
			t.Errorf("unexpected coordinates lat=%s lon=%s", q.Get("lat"), q.Get("lon"))
		}
		if q.Get("units") != "metric" {
			t.Errorf("expected units=metric, got %s", q.Get("units"))
		}
		if q.Get("appid") != "test-key" {
			t.Errorf("expected appid=test-key, got %s", q.Get("appid"))
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("expected User-Agent test-agent, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentJSON))
	})

	client := newTestClient(handler)
	client.BaseURL = "https://api.test/data/2.5"

	cur, err := client.Current(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cur.Name != "Paris" || cur.Country != "FR" {
		t.Errorf("unexpected name %q country %q", cur.Name, cur.Country)
	}
	if cur.Temperature != 20.4 || cur.FeelsLike != 19.8 {
		t.Errorf("unexpected temps %v / %v", cur.Temperature, cur.FeelsLike)
	}
	if cur.Humidity != 64 || cur.WindSpeed != 3.6 {
		t.Errorf("unexpected humidity %d wind %v", cur.Humidity, cur.WindSpeed)
	}
	if cur.Icon != "03d" || cur.Description != "scattered clouds" {
		t.Errorf("unexpected condition %q %q", cur.Icon, cur.Description)
	}
	if cur.Time.Unix() != 1710072000 {
		t.Errorf("unexpected time %v", cur.Time)
	}
}

func TestCurrent_MissingConditions(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 5}, "weather": [], "name": "Nowhere"}`))
	})

	cur, err := newTestClient(handler).Current(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.Icon != "" || cur.Description != "" {
		t.Errorf("expected empty condition, got %q %q", cur.Icon, cur.Description)
	}
}

func TestForecast(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/forecast") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected units=metric, got %s", r.URL.Query().Get("units"))
		}
		w.Write([]byte(forecastJSON))
	})

	samples, err := newTestClient(handler).Forecast(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	want := ForecastSample{
		Timestamp:   1710072000,
		Temperature: 12.1,
		Humidity:    70,
		WindSpeed:   4.2,
		Icon:        "10d",
		Description: "light rain",
	}
	if samples[0] != want {
		t.Errorf("samples[0] = %+v, want %+v", samples[0], want)
	}
	if samples[1].Timestamp != 1710082800 {
		t.Errorf("samples[1] timestamp = %d", samples[1].Timestamp)
	}
}

func TestGeocode(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Paris" {
			t.Errorf("expected q=Paris, got %s", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %s", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`[
			{"name": "Paris", "lat": 48.8589, "lon": 2.32, "country": "FR"},
			{"name": "Paris", "lat": 33.66, "lon": -95.55, "country": "US", "state": "Texas"},
			{"name": "Paris", "lat": 1, "lon": 2}
		]`))
	})

	client := newTestClient(handler)
	client.GeoURL = "https://api.test/geo/1.0"

	locs, err := client.Geocode(context.Background(), "  Paris ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Location{
		{Name: "Paris, FR", Lat: 48.8589, Lon: 2.32},
		{Name: "Paris, US", Lat: 33.66, Lon: -95.55},
		{Name: "Paris", Lat: 1, Lon: 2},
	}
	if len(locs) != len(want) {
		t.Fatalf("expected %d locations, got %d", len(want), len(locs))
	}
	for i := range want {
		if locs[i] != want[i] {
			t.Errorf("locs[%d] = %+v, want %+v", i, locs[i], want[i])
		}
	}
}

func TestGeocode_ShortQuerySkipsRequest(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, q := range []string{"", "  ", "Pa", "东京"} {
		locs, err := newTestClient(handler).Geocode(context.Background(), q)
		if err != nil {
			t.Errorf("Geocode(%q) error: %v", q, err)
		}
		if locs == nil || len(locs) != 0 {
			t.Errorf("Geocode(%q) = %v, want empty", q, locs)
		}
	}
	if called {
		t.Error("short queries should not reach the API")
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "not found", status: http.StatusNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"cod": "error"}`))
			})
			client := newTestClient(handler)

			if _, err := client.Current(context.Background(), 1, 2); err == nil || !strings.Contains(err.Error(), "OpenWeatherMap API error") {
				t.Errorf("Current: expected API error, got %v", err)
			}
			if _, err := client.Forecast(context.Background(), 1, 2); err == nil {
				t.Error("Forecast: expected error")
			}
			if _, err := client.Geocode(context.Background(), "Paris"); err == nil {
				t.Error("Geocode: expected error")
			}
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": "nope"`))
	})

	if _, err := newTestClient(handler).Forecast(context.Background(), 1, 2); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTransportErrorOmitsAPIKey(t *testing.T) {
	client := NewClient("SECRETKEY123")
	client.HTTPClient = &http.Client{Transport: failingTransport{}}

	_, err := client.Current(context.Background(), 48.85, 2.35)
	if err == nil {
		t.Fatal("expected error from failing transport")
	}
	if strings.Contains(err.Error(), "SECRETKEY123") {
		t.Errorf("error exposes API key: %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected transport cause in error, got %v", err)
	}

	if _, err := client.Geocode(context.Background(), "Paris"); err == nil || strings.Contains(err.Error(), "SECRETKEY123") {
		t.Errorf("unexpected geocode error %v", err)
	}
}
