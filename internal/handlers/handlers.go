package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swelljoe/wthr-dash/internal/dashboard"
	"github.com/swelljoe/wthr-dash/internal/weather"
)

//go:embed templates/*.html
var templateFS embed.FS

// Database defines the interface for database operations needed by handlers
type Database interface {
	Ping() error
}

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	db        Database
	dash      *dashboard.Dashboard
	templates *template.Template
}

// New creates a new Handlers instance. database may be nil.
func New(database Database, dash *dashboard.Dashboard) *Handlers {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Printf("Warning: Failed to parse templates: %v", err)
	}

	return &Handlers{
		db:        database,
		dash:      dash,
		templates: tmpl,
	}
}

// HandleIndex renders the dashboard page
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if h.templates == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var view dashboard.View
	if h.dash != nil {
		view = h.dash.View()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleHealth handles health check endpoint
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
		}
	} else {
		status = "no_database"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// HandleSearch performs location autocomplete
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	locations, err := h.dash.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("Search error: %v", err)
		writeError(w, http.StatusBadGateway, weather.ErrLocationLookup)
		return
	}

	if locations == nil {
		locations = []weather.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

// HandleWeather selects a location and fetches its weather. The location
// comes from a JSON body, lat/lon query parameters, or a free-text
// "location" parameter resolved to its first geocoding match.
func (h *Handlers) HandleWeather(w http.ResponseWriter, r *http.Request) {
	loc, status, err := h.locationFromRequest(r)
	if err != nil {
		writeError(w, status, err)
		return
	}

	if err := h.dash.Select(r.Context(), loc); err != nil {
		switch {
		case errors.Is(err, dashboard.ErrStale):
			writeError(w, http.StatusConflict, err)
		default:
			log.Printf("Weather error: %v", err)
			writeError(w, http.StatusBadGateway, weather.ErrFetchFailed)
		}
		return
	}

	writeJSON(w, http.StatusOK, h.dash.View())
}

func (h *Handlers) locationFromRequest(r *http.Request) (weather.Location, int, error) {
	q := r.URL.Query()

	if query := q.Get("location"); query != "" {
		matches, err := h.dash.Search(r.Context(), query)
		if err != nil {
			log.Printf("Search error: %v", err)
			return weather.Location{}, http.StatusBadGateway, weather.ErrLocationLookup
		}
		if len(matches) == 0 {
			return weather.Location{}, http.StatusNotFound, errors.New("location not found")
		}
		return matches[0], 0, nil
	}

	if latStr, lonStr := q.Get("lat"), q.Get("lon"); latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return weather.Location{}, http.StatusBadRequest, errors.New("invalid latitude")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return weather.Location{}, http.StatusBadRequest, errors.New("invalid longitude")
		}
		return weather.Location{Name: q.Get("name"), Lat: lat, Lon: lon}, 0, nil
	}

	loc, err := decodeLocation(r)
	if err != nil || strings.TrimSpace(loc.Name) == "" {
		return weather.Location{}, http.StatusBadRequest, errors.New("please provide a location")
	}
	return loc, 0, nil
}

// HandleView returns the current dashboard state
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.View())
}

// HandleToggleUnit switches between Celsius and Fahrenheit
func (h *Handlers) HandleToggleUnit(w http.ResponseWriter, r *http.Request) {
	h.dash.ToggleUnit()
	writeJSON(w, http.StatusOK, h.dash.View())
}

// HandleListFavorites returns saved locations
func (h *Handlers) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Favorites())
}

// HandleAddFavorite saves the location in the request body
func (h *Handlers) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	loc, err := decodeLocation(r)
	if err != nil || strings.TrimSpace(loc.Name) == "" {
		writeError(w, http.StatusBadRequest, errors.New("a location with a name is required"))
		return
	}

	if err := h.dash.AddFavorite(loc); err != nil {
		log.Printf("Favorite save error: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dash.Favorites())
}

// HandleRemoveFavorite forgets the favorite named in the URL
func (h *Handlers) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi routes on RawPath when it is set, leaving the parameter escaped
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid favorite name"))
			return
		}
		name = unescaped
	}

	if err := h.dash.RemoveFavorite(name); err != nil {
		log.Printf("Favorite remove error: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dash.Favorites())
}

// HandleToggleFavorite saves or forgets the displayed location
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dash.ToggleFavorite(); err != nil {
		log.Printf("Favorite toggle error: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dash.View())
}

func decodeLocation(r *http.Request) (weather.Location, error) {
	var loc weather.Location
	if r.Body == nil {
		return loc, errors.New("empty body")
	}
	err := json.NewDecoder(r.Body).Decode(&loc)
	return loc, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("JSON encode error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("Response write error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
