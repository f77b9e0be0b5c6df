package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the dashboard
type Config struct {
	Port      string
	DBPath    string
	UserAgent string

	OpenWeather struct {
		APIKey  string
		BaseURL string
		GeoURL  string
	}
}

// Load reads settings from the environment, after applying any .env file
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	c := &Config{}
	c.Port = getEnvOrDefault("PORT", "8080")
	c.DBPath = getEnvOrDefault("DB_PATH", "wthr.db")
	c.UserAgent = getEnvOrDefault("WTHR_USER_AGENT", "wthr-dash/1.0")

	c.OpenWeather.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	c.OpenWeather.BaseURL = getEnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	c.OpenWeather.GeoURL = getEnvOrDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0")

	if c.OpenWeather.APIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY is not set, weather lookups will fail")
	}

	return c
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
