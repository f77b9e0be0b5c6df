// Command import-favorites seeds the favorites slot from a CSV or JSON file.
//
// CSV rows are name,lat,lon with an optional header row. JSON input is an
// array of {"name","lat","lon"} objects. The source may also be an http(s)
// URL, which is downloaded first. Rows with a missing name or out of range
// coordinates are logged and skipped.
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/swelljoe/wthr-dash/internal/db"
	"github.com/swelljoe/wthr-dash/internal/favorites"
	"github.com/swelljoe/wthr-dash/internal/weather"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import-favorites <file.csv|file.json|url>")
	}
	source := args[0]

	// Initialize DB
	database, err := db.NewDB()
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer database.Close()

	store := favorites.New(database)
	existing := len(store.Load())

	r, err := openSource(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer r.Close()

	importer := importCSV
	if strings.EqualFold(path.Ext(source), ".json") {
		importer = importJSON
	}

	fmt.Printf("Processing %s...\n", source)
	count, err := importer(store, r)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", source, err)
	}
	fmt.Printf("Finished importing %d favorites (%d already saved).\n", count, existing)
	return nil
}

type importFunc func(*favorites.Store, io.Reader) (int, error)

func openSource(source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}

	fmt.Printf("Downloading %s...\n", source)
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(source)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, nil
}

func importCSV(store *favorites.Store, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	count := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("Skipping malformed line %d: %v", line, err)
			continue
		}

		// name(0)	lat(1)	lon(2)
		if len(record) < 3 {
			log.Printf("Skipping line %d: expected name,lat,lon", line)
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}

		name := strings.TrimSpace(record[0])
		lat, lon, err := parseAndValidateCoordinates(strings.TrimSpace(record[1]), strings.TrimSpace(record[2]))
		if err != nil {
			log.Printf("Error parsing coordinates for %s: %v", name, err)
			continue
		}

		added, err := addFavorite(store, weather.Location{Name: name, Lat: lat, Lon: lon})
		if err != nil {
			return count, err
		}
		if added {
			count++
		}
	}
	return count, nil
}

func importJSON(store *favorites.Store, r io.Reader) (int, error) {
	var locations []weather.Location
	if err := json.NewDecoder(r).Decode(&locations); err != nil {
		return 0, fmt.Errorf("invalid JSON: %w", err)
	}

	count := 0
	for _, loc := range locations {
		loc.Name = strings.TrimSpace(loc.Name)
		if err := validateCoordinates(loc.Lat, loc.Lon); err != nil {
			log.Printf("Error parsing coordinates for %s: %v", loc.Name, err)
			continue
		}

		added, err := addFavorite(store, loc)
		if err != nil {
			return count, err
		}
		if added {
			count++
		}
	}
	return count, nil
}

// addFavorite reports whether loc was new. Write failures abort the import.
func addFavorite(store *favorites.Store, loc weather.Location) (bool, error) {
	if loc.Name == "" {
		log.Printf("Skipping location at %.4f,%.4f: missing name", loc.Lat, loc.Lon)
		return false, nil
	}
	if store.Contains(loc.Name) {
		log.Printf("Skipping %s: already a favorite", loc.Name)
		return false, nil
	}
	if err := store.Add(loc); err != nil {
		return false, err
	}
	return true, nil
}

// parseAndValidateCoordinates parses and validates latitude and longitude strings
func parseAndValidateCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	if err := validateCoordinates(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude out of range: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude out of range: %f", lon)
	}
	return nil
}
