// Package handlers contains the HTTP route handler functions for the Skins Game API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, performing any business logic, and writing a response.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health. It sits outside the auth middleware and
// touches nothing — no database, no stores — so a probe succeeding means only
// that the process is up and serving. Orchestrator liveness checks and anyone
// wondering whether the server started point here.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
