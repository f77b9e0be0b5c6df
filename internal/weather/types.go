package weather

import "time"

// Location is a named coordinate pair. Two locations are the same favorite
// when their names match exactly.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// CurrentConditions is the latest observation for a location.
// Temperatures are Celsius, wind speed is m/s.
type CurrentConditions struct {
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
}

// ForecastSample is one step of the provider's forecast series
type ForecastSample struct {
	Timestamp   int64   `json:"dt"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Time returns the sample timestamp in the local zone
func (s ForecastSample) Time() time.Time {
	return time.Unix(s.Timestamp, 0)
}

// Report aggregates everything fetched for one location
type Report struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastSample  `json:"forecast"`
	Daily    []ForecastSample  `json:"daily"`
	Fetched  time.Time         `json:"fetched_at"`
}
