// Package handlers contains HTTP route handler functions for the Skins Game API.
// This file handles the /api/v1/games routes — the lifecycle of a skins game
// from creation through sign-up, play and settlement.
//
// The handlers stay thin on purpose: every rule about what a game may do lives
// in the internal/game package. A handler loads the game document, wraps it in
// a game.Entity, calls one entity method, and saves the snapshot. The only
// logic here is translating between HTTP and the core's types and errors.
//
// --- Permission model ---
//   - Creating, editing, transitioning, and finalizing games: admin + organizer.
//   - Reading games and results: any authenticated player.
//   - Deleting games: admin only (deletion is a storage operation, not a
//     lifecycle action — finished games are normally finalized, not deleted).
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Bvictor-coder/skins-game/internal/game"
	"github.com/Bvictor-coder/skins-game/internal/scoring"
	"github.com/Bvictor-coder/skins-game/internal/storage"
)

// CreateGameRequest is the JSON body we expect on POST /api/v1/games.
// The `validate` tags enforce the structural rules up front: the date must be
// a real calendar date, the hole count must be 9 or 18, and the entry fee
// can't be negative.
type CreateGameRequest struct {
	Date        string              `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string              `json:"time" validate:"omitempty,datetime=15:04"`
	Course      string              `json:"course" validate:"required,uuid"`
	Holes       int                 `json:"holes" validate:"required,oneof=9 18"`
	EntryFee    float64             `json:"entryFee" validate:"gte=0"`
	Notes       string              `json:"notes"`
	CTPHole     *int                `json:"ctpHole" validate:"omitempty,gte=1,lte=18"`
	WolfEnabled bool                `json:"wolfEnabled"`
	PotSplits   *scoring.PotOptions `json:"potSplits"`
}

// coreError translates errors from the game core and the storage layer into
// HTTP responses. Validation problems are the client's fault (400); illegal
// transitions, unmet finalize preconditions and version conflicts are
// conflicts with current state (409); anything else is a server fault.
func coreError(c *fiber.Ctx, err error) error {
	var vErr *game.ValidationError
	var tErr *game.InvalidTransitionError
	var fErr *game.FinalizationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": vErr.Errors,
		})
	case errors.As(err, &tErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": tErr.Error()})
	case errors.As(err, &fErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fErr.Error()})
	case errors.Is(err, storage.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "game was modified by someone else; reload and try again",
		})
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	default:
		logrus.WithError(err).Error("unexpected error handling game request")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

// loadGame fetches a game document by the :id route parameter.
func loadGame(c *fiber.Ctx, games storage.GameStore) (*game.Game, error) {
	return games.Get(c.Context(), c.Params("id"))
}

// CreateGame returns a handler for POST /api/v1/games.
// Requires "admin" or "organizer" role (enforced by RequireRole on the route).
// The new game starts its lifecycle in the created state with its first
// history entry stamped.
func CreateGame(games storage.GameStore, courses storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateGameRequest
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
		if req.CTPHole != nil && *req.CTPHole > req.Holes {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "ctpHole cannot be beyond the last hole",
			})
		}

		// The course must exist — a game pointing at a missing course could
		// never have results calculated.
		if _, err := courses.Get(c.Context(), req.Course); err != nil {
			if err == storage.ErrNotFound {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "course not found",
				})
			}
			return coreError(c, err)
		}

		entity, err := game.New(game.Game{
			ID:          uuid.NewString(),
			Date:        req.Date,
			Time:        req.Time,
			Course:      req.Course,
			Holes:       req.Holes,
			EntryFee:    req.EntryFee,
			Notes:       req.Notes,
			CTPHole:     req.CTPHole,
			WolfEnabled: req.WolfEnabled,
			PotSplits:   req.PotSplits,
		})
		if err != nil {
			return coreError(c, err)
		}

		doc := entity.Snapshot()
		if err := games.Create(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetGames returns a handler for GET /api/v1/games.
// Optional query param: ?status=open (any of the six lifecycle statuses) to
// filter the listing.
func GetGames(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := game.Status(c.Query("status")) // empty string if not provided
		if status != "" && !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown status filter",
			})
		}
		list, err := games.List(c.Context(), status)
		if err != nil {
			return coreError(c, err)
		}
		return c.JSON(list)
	}
}

// GetGame returns a handler for GET /api/v1/games/:id.
func GetGame(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}
		return c.JSON(g)
	}
}

// UpdateGame returns a handler for PATCH /api/v1/games/:id.
// The body is a sparse patch: only the fields present are changed. A status
// field in the patch is executed as a lifecycle transition with all the usual
// guards, never as a plain write.
func UpdateGame(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch game.Patch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}

		entity := game.FromRecord(*g)
		if err := entity.Update(patch); err != nil {
			return coreError(c, err)
		}

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}
		return c.JSON(doc)
	}
}

// TransitionRequest is the body for POST /api/v1/games/:id/status.
type TransitionRequest struct {
	Status game.Status `json:"status" validate:"required"`
}

// TransitionGame returns a handler for POST /api/v1/games/:id/status — the
// explicit way to move a game through its lifecycle. Watchers of the game get
// a status event over the websocket feed.
func TransitionGame(games storage.GameStore, broadcast Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TransitionRequest
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

		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}

		entity := game.FromRecord(*g)
		if err := entity.TransitionTo(req.Status); err != nil {
			// For a bad transition, tell the client where the game can actually
			// go from here instead of just refusing.
			var tErr *game.InvalidTransitionError
			if errors.As(err, &tErr) {
				allowed := make([]game.Status, 0, 2)
				if next := game.ForwardOf(g.Status); next != "" {
					allowed = append(allowed, next)
				}
				if back := game.BackwardOf(g.Status); back != "" {
					allowed = append(allowed, back)
				}
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":   tErr.Error(),
					"allowed": allowed,
				})
			}
			return coreError(c, err)
		}

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}

		broadcastEvent(broadcast, doc.ID, "status_changed", fiber.Map{
			"status": doc.Status,
			"label":  doc.Status.Label(),
		})
		return c.JSON(doc)
	}
}

// DeleteGame returns a handler for DELETE /api/v1/games/:id (admin only).
func DeleteGame(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := games.Delete(c.Context(), c.Params("id")); err != nil {
			return coreError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
