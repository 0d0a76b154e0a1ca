package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/price-watch/internal/config"
	"github.com/foxxcyber/price-watch/internal/database"
	"github.com/foxxcyber/price-watch/internal/models"
)

// seedFile is the JSON shape consumed by -file: a list of extraction rules
type seedFile struct {
	Scripts []models.Script `json:"scripts"`
}

func main() {
	// Command line flags
	pattern := flag.String("pattern", "", "URL pattern (regular expression) for a single rule")
	script := flag.String("script", "", "Extraction script (JSON selector set) for a single rule")
	file := flag.String("file", "", "Seed rules from a JSON file instead of flags")
	dryRun := flag.Bool("dry-run", false, "Preview rules without writing to database")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	var scripts []models.Script
	switch {
	case *file != "":
		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read seed file: %v", err)
		}
		var seed seedFile
		if err := json.Unmarshal(raw, &seed); err != nil {
			log.Fatalf("Failed to parse seed file: %v", err)
		}
		scripts = seed.Scripts
	case *pattern != "" && *script != "":
		scripts = []models.Script{{Pattern: *pattern, Script: *script}}
	default:
		log.Fatal("Provide -file, or both -pattern and -script")
	}

	if *dryRun {
		for _, s := range scripts {
			log.Printf("Would add rule: %s -> %s", s.Pattern, s.Script)
		}
		log.Printf("Dry run complete, %d rule(s)", len(scripts))
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	for i := range scripts {
		s := scripts[i]
		if err := db.SaveScript(ctx, &s); err != nil {
			log.Fatalf("Failed to save rule %q: %v", s.Pattern, err)
		}
		log.Printf("Added rule %d: %s", s.ID, s.Pattern)
	}

	log.Printf("Seeding complete, %d rule(s) added", len(scripts))
}
