package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/api"
	"github.com/terraincognita07/jobtrack/internal/cli"
	"github.com/terraincognita07/jobtrack/internal/config"
	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/jobsearch"
	"github.com/terraincognita07/jobtrack/internal/render"
	"github.com/terraincognita07/jobtrack/internal/scraper"
	"github.com/terraincognita07/jobtrack/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var errUsage = errors.New("usage: jobtrack [reset-password <email> | create-admin <email> [full name]]")

func main() {
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1:], os.Stdin, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	location := mustLoadLocation(cfg.TimeZone)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	blobs, err := storage.New(lifecycleCtx, cfg.Storage())
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	renderer := render.NewPlaywrightRenderer()
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Printf("pdf renderer shutdown failed: %v", err)
		}
	}()

	handler, err := api.NewHandler(database, api.Options{
		Secret:           cfg.Secret,
		TokenTTL:         cfg.TokenTTL(),
		RegistrationOpen: cfg.RegistrationOpen(),
		MaxUploadBytes:   cfg.MaxUploadBytes(),
		Blobs:            blobs,
		Providers:        ai.NewFactory(cfg.AI()),
		Renderer:         renderer,
		Scraper:          scraper.NewCollector(),
		JobBackends:      jobsearch.Factory{},
		JobAggregator:    jobsearch.NewAggregator(cfg.JobSearchWorkers, cfg.JobSearchLimit),
		DefaultCountries: cfg.JobSearchCountries,
	})
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := newServer(cfg, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("jobtrack listening on http://0.0.0.0:%s (db: %s, storage: %s, tz: %s)", cfg.Port, cfg.DBPath, cfg.StorageType, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newServer(cfg config.Config, handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "jobtrack",
		DisableStartupMessage: true,
		BodyLimit:             int(cfg.MaxUploadBytes()) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func corsConfig(origins string) cors.Config {
	allowed := make([]string, 0)
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowed = append(allowed, trimmed)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"http://localhost:5173"}
	}
	return cors.Config{
		AllowOrigins: strings.Join(allowed, ","),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}
}

func runCommand(args []string, stdin *os.File, out io.Writer) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	switch args[0] {
	case "reset-password":
		if len(args) != 2 {
			return errUsage
		}
		return cli.RunResetPasswordCommand(cfg.DBPath, args[1], out)
	case "create-admin":
		if len(args) < 2 {
			return errUsage
		}
		return cli.RunCreateAdminCommand(cfg.DBPath, args[1], strings.Join(args[2:], " "), stdin, out)
	default:
		return errUsage
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
