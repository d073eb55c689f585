package main

import (
	"flag"
	"log"

	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadMigrationConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch *direction {
	case "up":
		err = database.MigrateUp(db)
	case "down":
		err = database.MigrateDown(db)
	default:
		l.Fatal("Unknown migration direction", zap.String("direction", *direction))
	}
	if err != nil {
		l.Fatal("Failed to run migrations", zap.String("direction", *direction), zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("direction", *direction))
}
