// Command seed loads categories from a YAML file and, optionally, demo users
// with comments waiting for moderation.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"moviepicker/internal/config"
	"moviepicker/internal/database"
	"moviepicker/internal/middleware"
	"moviepicker/internal/seed"
)

func main() {
	file := flag.String("file", "seeds/categories.yml", "YAML seed file")
	numUsers := flag.Int("users", 0, "Number of demo users to create")
	comments := flag.Int("comments", 2, "Pending comments per demo user")
	password := flag.String("password", "Seed!Passw0rd123", "Password for demo users")
	rngSeed := flag.Int64("seed", 0, "Random seed for generated data (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env, cfg.Debug, os.Stdout)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open seed file: %v", err)
	}
	defer func() { _ = f.Close() }()

	data, err := seed.LoadFile(f)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.NewSeeder(db, *rngSeed).Run(context.Background(), data, seed.Options{
		NumUsers:        *numUsers,
		CommentsPerUser: *comments,
		Password:        *password,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
