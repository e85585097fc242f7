package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"restaurant_analytics/internal/config"
	"restaurant_analytics/internal/database"
	"restaurant_analytics/internal/migrations"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	seed := flag.Bool("seed", true, "create demo data when the store is empty")
	flag.Parse()

	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if *reset {
		err = migrations.ResetSchema(db)
	} else {
		err = migrations.RunMigrations(db)
	}
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if *seed {
		fmt.Println("Seeding demo data...")
		if err := migrations.SeedDemoData(db, time.Now()); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
	}

	fmt.Println("Database initialization completed successfully!")
}
