// Command icechase starts the maze-chase match server: the simulation core
// behind a REST API plus a websocket feed per match. Flags control host/port,
// the custom levels directory, the snapshot database, and debug logging.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/frostpaw/icechase/api"
	"github.com/frostpaw/icechase/game/config"
	"github.com/frostpaw/icechase/game/service"
	"github.com/frostpaw/icechase/game/session"
	"github.com/frostpaw/icechase/transport/websocket"
)

const (
	version = "1.0.0"
	appName = "icechase"
)

func main() {
	// Load .env if present; a missing file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	cmd := &cli.Command{
		Name:    appName,
		Usage:   "realtime two-player maze-chase match server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: "localhost",
				Usage: "HTTP server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: 8080,
				Usage: "HTTP server port",
			},
			&cli.StringFlag{
				Name:    "levels-dir",
				Usage:   "directory with custom YAML level layouts (optional)",
				Sources: cli.EnvVars("LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "snapshot-db",
				Value:   "matches.db",
				Usage:   "path of the SQLite match snapshot database",
				Sources: cli.EnvVars("SNAPSHOT_DB"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: runServer,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}

// runServer wires the managers, service, hub, and API together and serves
// until interrupted.
func runServer(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.WithField("version", version).Info("starting icechase server")

	levelManager, err := config.NewManager(cmd.String("levels-dir"))
	if err != nil {
		return fmt.Errorf("failed to create level manager: %w", err)
	}

	store, err := session.NewSQLiteStore(cmd.String("snapshot-db"))
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	matchManager := session.NewManagerWithStore(store)
	if snapshots, err := matchManager.PersistedSnapshots(); err != nil {
		logrus.WithError(err).Warn("failed to read persisted snapshots")
	} else if len(snapshots) > 0 {
		logrus.WithField("snapshots", len(snapshots)).Info("snapshot store loaded")
	}

	hub := websocket.NewHub()
	go hub.Run()

	matchService := service.NewMatchService(matchManager, levelManager, hub.NotifierFor)
	apiServer := api.NewServer(matchService, hub)

	// Prune ended matches in the background; their snapshots stay in the
	// store for the external cache layer.
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go cleanupRoutine(cleanupCtx, matchManager)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("HTTP server listening")
		logrus.Infof("REST API: http://%s/api", addr)
		logrus.Infof("WebSocket: ws://%s/ws?match=<match_id>", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-stop:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP server shutdown error")
	}

	for _, match := range matchManager.List() {
		match.Stop()
	}

	logrus.Info("server stopped")
	return nil
}

// cleanupRoutine periodically drops matches that ended more than an hour ago.
func cleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupEnded(time.Hour); removed > 0 {
				logrus.WithField("removed", removed).Info("cleaned up ended matches")
			}
		}
	}
}
