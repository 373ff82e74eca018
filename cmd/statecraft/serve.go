package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"statecraft/internal/api"
	"statecraft/internal/catalog"
	"statecraft/internal/config"
	"statecraft/internal/game"
	"statecraft/internal/logging"
	"statecraft/internal/store"
)

var (
	serveAddr   string
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	Long:  "serve migrates the database and starts the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Parse()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = serveDBPath
		}

		logger := logging.New(cfg.LogLevel)

		cat, err := loadCatalog(cfg.ScenarioFile)
		if err != nil {
			return err
		}

		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return err
		}

		engine := game.NewEngine(cat, rand.New(rand.NewSource(time.Now().UnixNano())))
		server := api.NewServer(db, engine, logger)

		httpServer := &http.Server{
			Addr:    cfg.Addr,
			Handler: server.Routes(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server_listening", "addr", cfg.Addr, "scenarios", cat.Len())
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("server_stopped")
		return nil
	},
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Load()
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "statecraft.db", "Path to the SQLite database")
}
