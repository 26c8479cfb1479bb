// Package main is the corpus importer. It loads a structured corpus file and
// creates the exercises the session planner draws from. Run it against a
// fresh database to seed content, or re-run it after the content pipeline
// produces a new corpus; existing exercises are skipped.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avelow/recite-api/internal/config"
	"github.com/avelow/recite-api/internal/ingest"
	"github.com/avelow/recite-api/internal/platform/logger"
	"github.com/avelow/recite-api/internal/platform/postgres"
)

func main() {
	corpusPath := flag.String("corpus", "content/corpus.json", "path to the corpus JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server)

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	corpus, err := ingest.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	appLogger.Info("corpus loaded",
		slog.String("file", *corpusPath),
		slog.Int("sentences", len(corpus.Sentences)))

	importer := ingest.NewImporter(postgres.NewExerciseStore(db, appLogger), appLogger)
	result, err := importer.Import(context.Background(), corpus)
	if err != nil {
		log.Fatalf("import failed after %d exercises: %v", result.Created, err)
	}

	appLogger.Info("import complete",
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
}

// openDatabase opens the connection pool and verifies connectivity.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
