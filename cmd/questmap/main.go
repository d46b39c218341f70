package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"questmap/internal/api"
	"questmap/pkg/config"
	"questmap/pkg/db"
	"questmap/pkg/geo"
	"questmap/pkg/geocode"
	"questmap/pkg/logging"
	"questmap/pkg/mapstate"
	"questmap/pkg/position"
	"questmap/pkg/probe"
	"questmap/pkg/quest"
	"questmap/pkg/request"
	"questmap/pkg/route"
	"questmap/pkg/store"
	"questmap/pkg/tracker"
	"questmap/pkg/version"
)

const desktopID = "questmap.desktop"

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	// Session token and user id may come from a .env file next to the
	// binary instead of the config.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
	}

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault("configs/questmap.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: configs/questmap.yaml")
		return
	}

	if err := run(context.Background(), "configs/questmap.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("QuestMap Started", "version", version.Version)

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Expired cache rows are invisible to lookups; this just keeps the
	// file from growing forever.
	if err := dbConn.PruneLocations(time.Duration(appCfg.Geocoder.CacheTTL)); err != nil {
		slog.Error("Location cache pruning failed", "error", err)
	}

	tr := tracker.New()
	reqClient := request.New(tr, request.ClientConfig{
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
		MaxDelay:  time.Duration(appCfg.Request.Backoff.MaxDelay),
	})

	// Geocoding & Routing
	cache := geocode.NewCache(st, tr, time.Duration(appCfg.Geocoder.CacheTTL))
	resolver := geocode.NewResolver(reqClient, cache, appCfg.Geocoder.Endpoint)
	routeClient := route.NewClient(reqClient, tr, appCfg.Router.Endpoint)

	// Quest Store
	questClient := quest.NewClient(reqClient, appCfg.QuestAPI.Endpoint, appCfg.QuestAPI.SessionToken)
	questStore := quest.NewStore(questClient, resolver, appCfg.Geocoder.Concurrency)

	// Startup Checks
	checks := []probe.Check{
		{Name: "Database", Run: dbConn.PingContext, Critical: true},
	}
	if appCfg.QuestAPI.UserID != "" {
		checks = append(checks, probe.Check{Name: "Quest API", Run: func(ctx context.Context) error {
			_, err := questClient.FetchUser(ctx, appCfg.QuestAPI.UserID)
			return err
		}})
	}
	if err := probe.RunAll(ctx, checks); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	if appCfg.QuestAPI.UserID != "" {
		go func() {
			if err := questStore.Load(ctx, appCfg.QuestAPI.UserID); err != nil {
				slog.Error("Initial quest load failed", "error", err)
			}
		}()
	} else {
		slog.Warn("No user id configured, quest collections stay empty until /api/quests/refresh")
	}

	// Map Coordinator
	fallback := geo.Point{Lat: appCfg.Map.FallbackLat, Lon: appCfg.Map.FallbackLon}
	transport, err := route.ParseMode(appCfg.Map.DefaultTransport)
	if err != nil {
		return fmt.Errorf("invalid transport mode in config: %w", err)
	}
	coord := mapstate.New(position.NewGeoClueSource(desktopID), resolver, routeClient, st, fallback, transport)
	go coord.Start(ctx)

	return runServer(ctx, cancel, appCfg, questStore, questClient, coord, tr)
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

func runServer(ctx context.Context, cancel context.CancelFunc, appCfg *config.Config, questStore *quest.Store, questClient *quest.Client, coord *mapstate.Coordinator, tr *tracker.Tracker) error {
	questH := api.NewQuestHandler(questStore, questClient, appCfg.QuestAPI.UserID)
	mapH := api.NewMapHandler(coord)
	statsH := api.NewStatsHandler(tr)
	eventsH := api.NewEventsHandler(coord)

	server := api.NewServer(appCfg.Server.Address, questH, mapH, statsH, eventsH, cancel)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "address", appCfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		slog.Info("Shutting down on signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
