// Package dashboard holds the state behind the weather page: the selected
// location, the last fetched report, the display unit and the favorites.
//
// Every Select call takes a new generation number. A fetch that completes
// after a newer Select has started is dropped instead of overwriting the
// fresher state.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/swelljoe/wthr-dash/internal/favorites"
	"github.com/swelljoe/wthr-dash/internal/units"
	"github.com/swelljoe/wthr-dash/internal/weather"
)

// ErrStale is returned by Select when a newer selection superseded it
var ErrStale = errors.New("weather request superseded by a newer search")

// Fetcher is the weather service used by the dashboard
type Fetcher interface {
	Fetch(ctx context.Context, loc weather.Location) (*weather.Report, error)
	Search(ctx context.Context, query string) ([]weather.Location, error)
}

// Dashboard is the application context shared by all handlers
type Dashboard struct {
	weather   Fetcher
	favorites *favorites.Store

	mu         sync.Mutex
	units      units.Converter
	generation uint64
	selected   *weather.Location
	report     *weather.Report
	errMsg     string
	loading    bool
}

// New creates a dashboard with metric units and nothing selected
func New(w Fetcher, favs *favorites.Store) *Dashboard {
	return &Dashboard{
		weather:   w,
		favorites: favs,
	}
}

// Search returns candidate locations for query
func (d *Dashboard) Search(ctx context.Context, query string) ([]weather.Location, error) {
	return d.weather.Search(ctx, query)
}

// Select makes loc the current location and fetches its weather.
// On failure both the current conditions and the forecast are cleared.
func (d *Dashboard) Select(ctx context.Context, loc weather.Location) error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.selected = &loc
	d.errMsg = ""
	d.loading = true
	d.mu.Unlock()

	report, err := d.weather.Fetch(ctx, loc)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		return ErrStale
	}

	d.loading = false
	if err != nil {
		log.Printf("Weather error for %q: %v", loc.Name, err)
		d.report = nil
		// Only the sentinel text is shown; the cause may hold request details
		d.errMsg = weather.ErrFetchFailed.Error()
		return err
	}
	d.report = report
	return nil
}

// Unit returns the display unit
func (d *Dashboard) Unit() units.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.units.Unit()
}

// ToggleUnit flips the display unit. Readings are kept in Celsius, so no
// re-fetch is needed.
func (d *Dashboard) ToggleUnit() units.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units.Toggle()
	return d.units.Unit()
}

// Favorites returns the saved locations
func (d *Dashboard) Favorites() []weather.Location {
	return d.favorites.List()
}

// AddFavorite saves loc
func (d *Dashboard) AddFavorite(loc weather.Location) error {
	return d.favorites.Add(loc)
}

// RemoveFavorite forgets the favorite called name
func (d *Dashboard) RemoveFavorite(name string) error {
	return d.favorites.Remove(name)
}

// ToggleFavorite saves or forgets the displayed location. It is keyed by
// the provider's name for the place, with the selected coordinates.
// Without a displayed report it does nothing.
func (d *Dashboard) ToggleFavorite() (bool, error) {
	d.mu.Lock()
	if d.report == nil || d.selected == nil {
		d.mu.Unlock()
		return false, nil
	}
	loc := weather.Location{
		Name: favoriteName(d.report, d.selected),
		Lat:  d.selected.Lat,
		Lon:  d.selected.Lon,
	}
	d.mu.Unlock()

	if d.favorites.Contains(loc.Name) {
		if err := d.favorites.Remove(loc.Name); err != nil {
			return true, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}
	if err := d.favorites.Add(loc); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

func favoriteName(r *weather.Report, selected *weather.Location) string {
	if r.Current.Name != "" {
		return r.Current.Name
	}
	return selected.Name
}

// View is a display-ready snapshot of the dashboard
type View struct {
	Unit       units.Unit         `json:"unit"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
	Selected   *weather.Location  `json:"selected,omitempty"`
	Current    *CurrentView       `json:"current,omitempty"`
	Forecast   []DayView          `json:"forecast"`
	Favorites  []weather.Location `json:"favorites"`
	IsFavorite bool               `json:"is_favorite"`
}

// CurrentView holds formatted current conditions
type CurrentView struct {
	Name        string `json:"name"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DayView holds one formatted forecast day
type DayView struct {
	Date        string `json:"date"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Icon        string `json:"icon"`
}

// View renders the current state with all readings in the display unit
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	conv := d.units
	title := cases.Title(language.English)

	v := View{
		Unit:      conv.Unit(),
		Loading:   d.loading,
		Error:     d.errMsg,
		Forecast:  make([]DayView, 0, weather.MaxForecastDays),
		Favorites: d.favorites.List(),
	}
	if d.selected != nil {
		sel := *d.selected
		v.Selected = &sel
	}

	if d.report != nil {
		cur := d.report.Current
		v.Current = &CurrentView{
			Name:        favoriteName(d.report, d.selected),
			Temperature: conv.Format(cur.Temperature),
			FeelsLike:   conv.Format(cur.FeelsLike),
			Humidity:    fmt.Sprintf("%d%%", cur.Humidity),
			Wind:        conv.FormatSpeed(cur.WindSpeed),
			Description: title.String(cur.Description),
			Icon:        iconURL(cur.Icon, "@2x"),
		}
		v.IsFavorite = d.favorites.Contains(v.Current.Name)

		for _, s := range d.report.Daily {
			v.Forecast = append(v.Forecast, DayView{
				Date:        time.Unix(s.Timestamp, 0).Format("Mon, Jan 2"),
				Temperature: conv.Format(s.Temperature),
				Description: title.String(s.Description),
				Humidity:    fmt.Sprintf("%d%%", s.Humidity),
				Wind:        conv.FormatSpeed(s.WindSpeed),
				Icon:        iconURL(s.Icon, ""),
			})
		}
	}

	return v
}

func iconURL(code, scale string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s%s.png", code, scale)
}
