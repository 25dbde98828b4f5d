package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"itinerary-service/internal/adapters/notify"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/api"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal(err)
	}

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}
	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Open(cfg.SQLDriver(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	repo := repositories.NewSQLTripRepository(database, dialect)

	// Initialize schema and seed demo data on startup for local runs.
	ctx := context.Background()
	if err := initAndSeed(ctx, database, repo, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	var (
		notifier   ports.ChangeNotifier = notify.Nop{}
		subscriber ports.ChangeSubscriber
	)
	if cfg.RedisURL != "" {
		rn, err := notify.NewRedisNotifierFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rn.Close()
		notifier, subscriber = rn, rn
		log.Printf("Live updates enabled channel_prefix=%s", rn.Prefix)
	}

	it := services.NewItinerary(repo, notifier, rules)
	router := api.NewRouter(it, subscriber, cfg.EventsKeepAlive)

	// WriteTimeout stays zero so the SSE stream is not cut off.
	log.Printf("Server listening addr=:%s driver=%s tz=%s", cfg.Port, dialect, rules.Loc())
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(ctx context.Context, database *sql.DB, repo ports.TripRepository, seedPath string) error {
	if err := repositories.InitSchema(database); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); err != nil {
		log.Printf("Skipping seed path=%s err=%v", seedPath, err)
		return nil
	}
	// Trips already stored keep their edits; only missing ones are seeded.
	if err := repositories.SeedFromFile(ctx, repo, seedPath, repositories.SeedSkipExisting); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
