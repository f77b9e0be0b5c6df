package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swelljoe/wthr-dash/internal/config"
	"github.com/swelljoe/wthr-dash/internal/dashboard"
	"github.com/swelljoe/wthr-dash/internal/db"
	"github.com/swelljoe/wthr-dash/internal/favorites"
	"github.com/swelljoe/wthr-dash/internal/handlers"
	"github.com/swelljoe/wthr-dash/internal/weather"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.Load()

	// Initialize database connection
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Printf("Warning: Database connection failed: %v", err)
		log.Println("Continuing without database, favorites will not be saved...")
		database = nil
	} else {
		defer database.Close()
		log.Println("Database connected successfully")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           newHandler(cfg, database),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}

// newHandler assembles the dashboard. database may be nil, in which case
// favorites live only for the process lifetime.
func newHandler(cfg *config.Config, database *db.DB) http.Handler {
	client := weather.NewClient(cfg.OpenWeather.APIKey)
	client.BaseURL = cfg.OpenWeather.BaseURL
	client.GeoURL = cfg.OpenWeather.GeoURL
	client.UserAgent = cfg.UserAgent

	var slot favorites.Slot
	var health handlers.Database
	if database != nil {
		slot = database
		health = database
	}

	store := favorites.New(slot)
	log.Printf("Loaded %d favorite locations", len(store.Load()))

	dash := dashboard.New(weather.NewService(client), store)
	return handlers.New(health, dash).Routes()
}
