// cmd/server/main.go
// This is the entry point for the Skins Game API server.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds
// executable binaries, and internal/ holds packages that are private to this project.
//
// The server organizes the group's recurring skins games: players sign up, get
// grouped, enter hole scores, and the pot is split by handicap-adjusted results.
// All the rules live in internal/game (lifecycle) and internal/scoring (skins math);
// this file only wires configuration, storage, routes, and the live-update hub.
package main

import (
	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing — allows the web app to talk to
	// the API even though they're running on different origins (hosts/ports)
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// logrus is the structured logger used for server-side events (startup,
	// fatal errors, background warnings) — request logging stays with fiber's
	// logger middleware above
	"github.com/sirupsen/logrus"

	// Internal packages — our own code, imported by module path
	"github.com/Bvictor-coder/skins-game/internal/config"
	"github.com/Bvictor-coder/skins-game/internal/database"
	"github.com/Bvictor-coder/skins-game/internal/handlers"
	"github.com/Bvictor-coder/skins-game/internal/middleware"
	"github.com/Bvictor-coder/skins-game/internal/storage"
	"github.com/Bvictor-coder/skins-game/internal/websocket"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()

	// Connect to the PostgreSQL database.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Run any pending SQL migration files (in the migrations/ directory).
	// Running them on startup ensures the schema is always in sync when the
	// server starts.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Build the stores once and inject them everywhere they're needed.
	// Handlers depend on the storage interfaces, not on *gorm.DB — tests swap
	// in memory-backed implementations and never touch Postgres.
	games := storage.NewGormGameStore(db)
	players := storage.NewGormPlayerStore(db)
	courses := storage.NewGormCourseStore(db)

	// Create the WebSocket Hub and start it in a goroutine. The Hub manages all
	// live connections — players watching a game see score entries and status
	// changes pushed the moment they happen.
	hub := websocket.NewHub()
	go hub.Run()

	// Create a new Fiber app (our HTTP server).
	app := fiber.New(fiber.Config{
		AppName: "Skins Game API",
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	app.Use(logger.New())
	// cors.New() allows requests from any origin (needed for the web app in
	// development). In production, lock this down to your specific domain.
	app.Use(cors.New())

	// --- Public routes (no auth required) ---
	// GET /health is a liveness check used by load balancers to verify the server is running.
	app.Get("/health", handlers.HealthCheck)

	// --- Live game feed ---
	// The /ws prefix rejects plain HTTP with 426 before the upgrade handler runs.
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws/games/:id", handlers.GameSocket(hub))

	// --- Authenticated API routes ---
	// All routes under /api/v1 require a valid bearer token.
	// middleware.Auth(cfg, players) validates the token AND lazily syncs the
	// player record into our database.
	api := app.Group("/api/v1", middleware.Auth(cfg, players))

	// Player roster
	api.Get("/players", handlers.GetPlayers(players))
	api.Get("/players/:id", handlers.GetPlayer(players))
	api.Post("/players", middleware.RequireRole("admin", "organizer"), handlers.CreatePlayer(players))

	// Game lifecycle
	// Reading is open to all authenticated players; anything that changes a
	// game requires the organizer (or admin) role.
	organizer := middleware.RequireRole("admin", "organizer")
	api.Get("/games", handlers.GetGames(games))
	api.Get("/games/:id", handlers.GetGame(games))
	api.Post("/games", organizer, handlers.CreateGame(games, courses))
	api.Patch("/games/:id", organizer, handlers.UpdateGame(games))
	api.Post("/games/:id/status", organizer, handlers.TransitionGame(games, hub))
	api.Delete("/games/:id", middleware.RequireRole("admin"), handlers.DeleteGame(games))

	// Scores and settlement
	// Any player can enter scores for their group while the round is live;
	// calculating and locking in results is the organizer's job.
	api.Put("/games/:id/scores", handlers.SubmitScores(games, hub))
	api.Get("/games/:id/results", handlers.GetResults(games))
	api.Post("/games/:id/results", organizer, handlers.CalculateResults(games, players, courses))
	api.Post("/games/:id/finalize", organizer, handlers.FinalizeGame(games, hub))
	api.Post("/games/:id/unfinalize", organizer, handlers.UnfinalizeGame(games))

	// Start listening for HTTP connections on the configured port.
	logrus.WithField("port", cfg.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
