// Command dbtool creates the listings table and seeds it from a JSON file.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"maps-extended-service/internal/adapters/repositories"
	"maps-extended-service/internal/config"
	"maps-extended-service/internal/platform/db"
	"maps-extended-service/internal/platform/logging"
)

func main() {
	envLoaded := config.LoadDotEnv()

	log := logging.New(config.Get(config.KeyLogLevel, config.DefaultLogLevel),
		config.Get(config.KeyLogFormat, config.DefaultLogFormat), os.Stderr)
	if !envLoaded {
		log.Info("no .env file found (using environment variables)")
	}

	databaseURL := config.Get(config.KeyDatabaseURL, "")
	if databaseURL == "" {
		log.Fatalf("%s is required", config.KeyDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database failed")
	}
	defer conn.Close()

	seedPath := config.Get(config.KeyListingsPath, config.DefaultListingsPath)
	if err := initAndSeed(ctx, log, conn, seedPath); err != nil {
		log.WithError(err).Fatal("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, log logrus.FieldLogger, conn *sql.DB, seedPath string) error {
	log.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Info("schema ready")

	log.WithField("path", seedPath).Info("seeding listings")
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return err
	}
	log.Info("seeding complete")

	return nil
}
