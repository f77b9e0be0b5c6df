package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrFetchFailed is returned when current conditions or the forecast could not be fetched
	ErrFetchFailed = errors.New("failed to fetch weather data")
	// ErrLocationLookup is returned when geocoding fails
	ErrLocationLookup = errors.New("failed to fetch location coordinates")
)

// Provider is the subset of the OpenWeatherMap client the service needs
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*CurrentConditions, error)
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error)
	Geocode(ctx context.Context, query string) ([]Location, error)
}

// Service handles weather lookups for the dashboard
type Service struct {
	provider Provider
	now      func() time.Time
}

// NewService creates a new weather service
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
		now:      time.Now,
	}
}

// Fetch retrieves current conditions and the forecast for loc concurrently.
// Both must succeed; a failure of either discards the other.
func (s *Service) Fetch(ctx context.Context, loc Location) (*Report, error) {
	var (
		current  *CurrentConditions
		forecast []ForecastSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.provider.Current(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return fmt.Errorf("current conditions: %w", err)
		}
		current = c
		return nil
	})
	g.Go(func() error {
		f, err := s.provider.Forecast(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		forecast = f
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Weather fetch for %q failed: %v", loc.Name, err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return &Report{
		Location: loc,
		Current:  *current,
		Forecast: forecast,
		Daily:    ReduceToDaily(forecast),
		Fetched:  s.now(),
	}, nil
}

// Search resolves a free-text query into candidate locations
func (s *Service) Search(ctx context.Context, query string) ([]Location, error) {
	locations, err := s.provider.Geocode(ctx, query)
	if err != nil {
		log.Printf("Geocode error for %q: %v", query, err)
		return nil, fmt.Errorf("%w: %w", ErrLocationLookup, err)
	}
	return locations, nil
}
