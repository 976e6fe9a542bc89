package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maps-extended-service/internal/adapters/gmaps"
	"maps-extended-service/internal/adapters/repositories"
	"maps-extended-service/internal/api"
	"maps-extended-service/internal/config"
	"maps-extended-service/internal/platform/db"
	"maps-extended-service/internal/platform/logging"
	"maps-extended-service/internal/platform/obs"
	"maps-extended-service/internal/ports"
	"maps-extended-service/internal/sdkloader"
	"maps-extended-service/internal/services/directions"
	"maps-extended-service/internal/services/distances"
	"maps-extended-service/internal/services/placelookup"
	"maps-extended-service/internal/services/storelocator"
)

const configElementName = "api-loader"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("server failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(config.NewViper(), run)
}

type runFunc func(ctx context.Context, cfg config.Config, envLoaded bool) error

func newRootCmdWith(v *viper.Viper, runE runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve maps distance, directions, opening hours and store locator endpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			envLoaded := config.LoadDotEnv()
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runE(cmd.Context(), cfg, envLoaded)
		},
	}

	flags := cmd.Flags()
	flags.StringP("port", "p", config.DefaultPort, "HTTP listen port")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text or json)")
	flags.String("listings", config.DefaultListingsPath, "path to the store locator listings JSON file")
	flags.Int("rate-limit", config.DefaultRateLimit, "outbound maps requests per second")

	bindings := map[string]string{
		config.KeyPort:          "port",
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
		config.KeyListingsPath:  "listings",
		config.KeyMapsRateLimit: "rate-limit",
	}
	for key, name := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

// run is the application composition root.
// It wires concrete adapters behind ports and serves HTTP until ctx ends or a
// termination signal arrives.
func run(ctx context.Context, cfg config.Config, envLoaded bool) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	obs.SetLogger(log)
	if !envLoaded {
		log.Debug("no .env file found (using environment variables)")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openListings(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	loader := sdkloader.New(gmaps.NewBootstrap(cfg.Maps.RateLimit, log), sdkloader.WithLogger(log))
	if cfg.MockMaps() {
		if err := installMockSDK(ctx, loader, repo, cfg, log); err != nil {
			return err
		}
	} else {
		loader.Connect(configElementName, sdkloader.Config{
			Key:                cfg.Maps.APIKey,
			Version:            cfg.Maps.Version,
			Language:           cfg.Maps.Language,
			Region:             cfg.Maps.Region,
			SolutionChannel:    cfg.Maps.SolutionChannel,
			AuthReferrerPolicy: cfg.Maps.AuthReferrerPolicy,
		})
	}

	measurer := distances.NewMeasurer(loader)
	router := api.NewRouter(api.Deps{
		Loader:     loader,
		Measurer:   measurer,
		Directions: directions.NewController(loader, log),
		Places:     placelookup.NewLookup(loader, cfg.PlaceCacheSize, "place-api"),
		Locator:    storelocator.NewLocator(repo, measurer, cfg.Maps.Region),
		Log:        log,
	})

	// Write timeout leaves room for a cold SDK poll plus web service latency.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "mock_maps": cfg.MockMaps()}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openListings picks Postgres when DATABASE_URL is set and the JSON file
// otherwise.
func openListings(ctx context.Context, cfg config.Config) (ports.ListingRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		repo, err := repositories.NewJSONListingRepository(cfg.ListingsPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPostgresListingRepository(conn), func() { _ = conn.Close() }, nil
}
