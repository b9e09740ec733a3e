package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"bundle-manager/app"
	"bundle-manager/config"
	"bundle-manager/db"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Overload(".env"); err != nil {
			log.Printf("Warning: .env file not found, using system environment variables")
		} else {
			log.Printf("Loaded environment variables from .env (overriding system variables)")
		}
	}

	cliApp := &cli.App{
		Name:  "bundle-manager",
		Usage: "merchant admin panel for product bundles",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "roll back the latest migration"},
				},
				Action: migrateDB,
			},
			{
				Name:   "reconcile",
				Usage:  "delete platform products left behind by failed bundle saves",
				Action: reconcile,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the configuration and sets up logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize application
	handler, err := app.Initialize(c.Context, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	port := strings.TrimPrefix(cfg.Port, ":")
	addr := "0.0.0.0:" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed to start")
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("🔄 Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, cfg *config.Config) error {
	connStr, err := cfg.Database.ConnectionString()
	if err != nil {
		return err
	}
	return db.InitDB(ctx, connStr)
}

func migrateDB(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := openDB(c.Context, cfg); err != nil {
		return err
	}
	defer db.CloseDB()

	if c.Bool("down") {
		return db.Rollback(db.DB)
	}
	return db.Migrate(db.DB)
}

func reconcile(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := openDB(c.Context, cfg); err != nil {
		return err
	}
	defer db.CloseDB()

	services, err := app.NewServices(c.Context, cfg)
	if err != nil {
		return err
	}

	result, err := services.Bundle.ReconcileOrphans(c.Context)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"total":    result.Total,
		"resolved": result.Resolved,
		"failed":   result.Failed,
	}).Info("🎉 Reconciliation finished")
	return nil
}
