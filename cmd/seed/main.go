package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"eduhub/internal/config"
	"eduhub/internal/db"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/service"
)

func main() {
	file := flag.String("file", "seed/catalogue.json", "catalogue JSON file")
	url := flag.String("url", "", "fetch the catalogue from this URL instead of -file")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.LogLevel(cfg.AppEnv))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Course{}, &model.Unit{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var data []byte
	if *url != "" {
		log.Printf("Fetching catalogue from: %s", *url)
		data, err = fetchCatalogue(*url)
	} else {
		log.Printf("Reading catalogue from: %s", *file)
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		log.Fatalf("Failed to load catalogue: %v", err)
	}

	courses, err := service.ParseCatalogue(data)
	if err != nil {
		log.Fatalf("Failed to parse catalogue: %v", err)
	}
	log.Printf("Loaded %d courses", len(courses))

	catalogue := service.NewCatalogueService(
		repository.NewCourseRepository(gormDB),
		repository.NewUnitRepository(gormDB),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stats, err := catalogue.Import(ctx, courses)
	if err != nil {
		log.Fatalf("Failed to seed catalogue: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New courses created: %d", stats.CoursesCreated)
	log.Printf("  - New units created: %d", stats.UnitsCreated)
	log.Printf("  - Existing units updated: %d", stats.UnitsUpdated)
}

// fetchCatalogue downloads a catalogue file.
func fetchCatalogue(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalogue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalogue URL returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
