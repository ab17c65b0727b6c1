package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"fuelroute/apperr"
	"fuelroute/config"
	"fuelroute/database"
	"fuelroute/geocoder"
	"fuelroute/handlers"
	"fuelroute/middleware"
	"fuelroute/orchestrator"
	"fuelroute/routeprovider"
	"fuelroute/stationstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Process-wide singletons per spec §5 resource discipline: one
	// keep-alive HTTP client each, constructed once and reused for the
	// life of the process.
	geocoderClient := geocoder.NewHTTPClient(10 * time.Second)
	geo := geocoder.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Contact, geocoderClient)

	routerClient := routeprovider.NewHTTPClient(time.Duration(cfg.RouteProvider.TimeoutSec) * time.Second)
	router := routeprovider.NewRouter(cfg.RouteProvider.BaseURL, cfg.RouteProvider.APIKey, routerClient,
		time.Duration(cfg.RouteProvider.CacheTTLMs)*time.Millisecond)

	stations := stationstore.New(db)

	planner := orchestrator.New(geo, router, stations)

	app := fiber.New(fiber.Config{
		AppName:           "fuelroute",
		EnablePrintRoutes: false,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
		BodyLimit:         1 * 1024 * 1024,
		JSONEncoder:       json.Marshal,
		JSONDecoder:       json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			} else if e, ok := err.(*apperr.Error); ok {
				code = e.Status()
			}

			return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.Performance())
	app.Use(middleware.RateLimit())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "fuelroute",
			"version":   cfg.Version,
			"timestamp": time.Now().Unix(),
		})
	})

	routeHandler := handlers.NewRouteHandler(planner)

	api := app.Group("/api")
	api.Get("/route/", routeHandler.PlanRoute)
	api.Post("/route/", routeHandler.PlanRoute)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	fmt.Printf("fuelroute started on port %s\n", cfg.Port)
	fmt.Printf("health check: http://localhost:%s/health\n", cfg.Port)

	<-c
	fmt.Println("\nshutting down fuelroute...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("fuelroute shutdown complete")
}
