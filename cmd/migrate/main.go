package main

import (
	"context"
	"log"
	"os"

	"brewhaven-site/internal/config"
	"brewhaven-site/internal/db"
	"brewhaven-site/internal/migrate"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC)

	if err := godotenv.Load(); err != nil {
		logger.Printf("no .env file found, using environment as-is")
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Printf("migrations applied")
}
