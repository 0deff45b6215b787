package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"club-service/internal/api"
	"club-service/internal/calendar"
	"club-service/internal/events"
	"club-service/internal/repository"
	"club-service/internal/service"
	"club-service/internal/tracing"
	_ "club-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("club-service")

	shutdownTracer, err := tracing.InitTracerProvider("club-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	cal, err := calendar.NewFromName(os.Getenv("CLUB_TZ"))
	if err != nil {
		log.Fatalf("Failed to load club timezone: %v", err)
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	txManager := repository.NewTxManager(db)
	sessionRepo := repository.NewPostgresSessionRepository(db)
	recurrenceRepo := repository.NewPostgresRecurrenceRepository(db)
	assignmentRepo := repository.NewPostgresAssignmentRepository(db)
	memberRepo := repository.NewPostgresMemberRepository(db)

	sessionService := service.NewSessionService(sessionRepo, assignmentRepo, cal)
	seriesService := service.NewSeriesService(txManager, sessionRepo, recurrenceRepo, assignmentRepo, cal, eventPublisher)

	sessionHandler := api.NewSessionHandler(sessionService, seriesService)
	seriesHandler := api.NewSeriesHandler(seriesService, sessionService, cal)
	rosterHandler := api.NewRosterHandler(seriesService, sessionService, memberRepo)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "club-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	sessionsRoutes := v1.Group("/sessions")
	sessionsRoutes.Use(api.AuthMiddleware())
	sessionsRoutes.Get("/", sessionHandler.ListUpcomingSessions)
	sessionsRoutes.Get("/:id", sessionHandler.GetSession)
	sessionsRoutes.Post("/", sessionHandler.CreateSession)
	sessionsRoutes.Patch("/:id", sessionHandler.UpdateSession)
	sessionsRoutes.Post("/:id/series", seriesHandler.CreateSeries)
	sessionsRoutes.Get("/:id/coaches", rosterHandler.GetRoster)
	sessionsRoutes.Put("/:id/coaches", rosterHandler.ReplaceRoster)

	coachRoutes := v1.Group("/coaches")
	coachRoutes.Use(api.AuthMiddleware())
	coachRoutes.Get("/", rosterHandler.ListCoaches)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8004"
	}

	log.Printf("Listening club-service on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
