// Package handlers contains HTTP route handler functions for the Skins Game API.
// This file handles the /api/v1/players routes — sign-up and the player roster.
//
// Each exported function follows the "handler factory" pattern: it takes the
// store interfaces it needs and returns a fiber.Handler (a function that handles
// a single HTTP request). This lets us inject dependencies without using global
// variables, and tests can pass in memory-backed stores.
package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Bvictor-coder/skins-game/internal/models"
	"github.com/Bvictor-coder/skins-game/internal/storage"
)

// validate is the shared request validator. Request structs declare their
// rules in `validate:` struct tags and every handler runs incoming bodies
// through this one instance (validator caches struct metadata, so sharing it
// is both idiomatic and faster).
var validate = validator.New()

// PlayerResponse is what we send back to clients. A dedicated response struct
// (instead of the raw GORM model) controls exactly which fields are serialised —
// the email is included here because the roster is only visible to the group.
type PlayerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	HandicapIndex float64 `json:"handicapIndex"`
	Role          string  `json:"role"`
	CreatedAt     string  `json:"created_at"` // ISO 8601 timestamp string
}

func playerResponse(p *models.Player) PlayerResponse {
	return PlayerResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Email:         p.Email,
		HandicapIndex: p.HandicapIndex,
		Role:          string(p.Role),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreatePlayerRequest is the JSON body we expect on POST /api/v1/players.
// The `validate` tags are enforced by the go-playground validator: a handicap
// index below zero or a malformed email is rejected before any business logic
// runs. There is deliberately no upper bound on the handicap index — the group
// has members well above 36 and the allocator handles any value.
type CreatePlayerRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	HandicapIndex float64 `json:"handicapIndex" validate:"gte=0"`
}

// GetPlayers returns a handler for GET /api/v1/players — the full roster,
// sorted by name.
func GetPlayers(players storage.PlayerStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := players.List(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch players",
			})
		}
		response := make([]PlayerResponse, len(list))
		for i := range list {
			response[i] = playerResponse(&list[i])
		}
		return c.JSON(response)
	}
}

// GetPlayer returns a handler for GET /api/v1/players/:id.
func GetPlayer(players storage.PlayerStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := players.Get(c.Context(), c.Params("id"))
		if err == storage.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "player not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch player",
			})
		}
		return c.JSON(playerResponse(p))
	}
}

// CreatePlayer returns a handler for POST /api/v1/players — organizer sign-up
// of a new group member.
func CreatePlayer(players storage.PlayerStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// c.BodyParser reads the body and unmarshals JSON fields that match struct tags.
		var req CreatePlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Duplicate emails get a clean 409 instead of a raw unique-index error.
		if _, err := players.GetByEmail(c.Context(), req.Email); err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "a player with this email already exists",
			})
		} else if err != storage.ErrNotFound {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		player := models.Player{
			Name:          req.Name,
			Email:         req.Email,
			HandicapIndex: req.HandicapIndex,
			Role:          models.PlayerRolePlayer,
		}
		if err := players.Create(c.Context(), &player); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create player",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(playerResponse(&player))
	}
}
