// Package middleware contains HTTP middleware functions for the Skins Game API.
// This file handles role-based access control: checking that the authenticated
// player is allowed to perform the requested action.
package middleware

import "github.com/gofiber/fiber/v2"

// RequireRole gates a route on the player's role, as synced from their token
// by the Auth middleware. The list is variadic because most write routes admit
// more than one role — the game lifecycle (create, patch, transition, results,
// finalize) is open to admins and organizers alike, while destructive routes
// like game deletion name "admin" alone:
//
//	api.Post("/games", middleware.RequireRole("admin", "organizer"), handlers.CreateGame(games, courses))
//	api.Delete("/games/:id", middleware.RequireRole("admin"), handlers.DeleteGame(games))
//
// It must run after Auth, which stores "playerRole" in c.Locals. A missing or
// non-string role means Auth never ran (or the player has no role assigned);
// either way the answer is 403 — the request may be authenticated, it just
// isn't authorized.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerRole, ok := c.Locals("playerRole").(string)
		if !ok || playerRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		for _, role := range roles {
			if playerRole == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
