// Package middleware contains HTTP middleware functions for the Skins Game API.
// Middleware sits between the HTTP server and route handlers — it runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like authentication, logging, and rate limiting.
package middleware

import (
	"strings"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"
	// jwt is used to parse and verify JSON Web Tokens from the Authorization header
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/Bvictor-coder/skins-game/internal/config"
	"github.com/Bvictor-coder/skins-game/internal/models"
	"github.com/Bvictor-coder/skins-game/internal/storage"
)

// Claims defines the data we expect inside a bearer token payload.
// Tokens are issued with the player's email as the subject plus custom claims:
//
//	"role":  "admin", "organizer", or "player"
//	"email": the player's email address (used for lazy player sync)
//	"name":  display name for the players table
//
// Without the custom claims, role defaults to "player" (least privileged) and
// email falls back to the token subject.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT fields: Subject, ExpiresAt, IssuedAt, etc.
	Role                 string `json:"role"`  // Custom claim: "admin", "organizer", or "player"
	Email                string `json:"email"` // Custom claim: the player's email address
	Name                 string `json:"name"`  // Custom claim: the player's display name
}

// Auth returns a Fiber middleware handler that:
//  1. Validates the JWT from the "Authorization: Bearer <token>" header
//  2. Finds the matching player in our database (or creates one on first visit)
//  3. Syncs the player's role from the JWT into the database
//  4. Stores the player's internal UUID and role in the request context (c.Locals)
//     so downstream handlers can read them without re-parsing the token
//
// This is a closure — a function that returns another function, capturing cfg and
// the player store in its scope so they're available every time a request comes in.
func Auth(cfg *config.Config, players storage.PlayerStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// --- Step 1: Extract the token from the Authorization header ---

		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		// Strip the "Bearer " prefix to get just the raw JWT string
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// --- Step 2: Parse and verify the JWT ---
		// ParseWithClaims verifies the HMAC signature against our shared secret
		// and checks standard claims like expiry. A bad signature, an expired
		// token, or a token signed with a different algorithm all fail here.
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		// The email identifies the player; fall back to the subject so tokens
		// without the custom claim still resolve to a stable identity.
		email := claims.Email
		if email == "" {
			email = claims.Subject
		}
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		// --- Step 3: Find or create the player in our database ---
		// This is "lazy player sync": the first time someone hits any
		// authenticated endpoint, we create their record. On subsequent
		// requests we just look them up by email.

		role := roleFromClaim(claims.Role)

		name := claims.Name
		if name == "" {
			name = "Player" // Generic fallback display name
		}

		player, err := players.GetByEmail(c.Context(), email)
		if err == storage.ErrNotFound {
			player = &models.Player{
				Name:  name,
				Email: email,
				Role:  role,
			}
			if err := players.Create(c.Context(), player); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create player record",
				})
			}
		} else if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		} else if player.Role != role && claims.Role != "" {
			// Player found — sync their role in case it changed upstream.
			// A failed sync is retried on the next request, so log and move on
			// rather than failing the whole request over it.
			player.Role = role
			if err := players.Update(c.Context(), player); err != nil {
				logrus.WithError(err).WithField("player", player.ID).
					Warn("failed to sync player role from token")
			}
		}

		// --- Step 4: Store player info in the request context ---
		// c.Locals is a key-value store scoped to this single request.
		// Handlers read "playerID" (our internal UUID) and "playerRole" from here.
		c.Locals("playerID", player.ID.String())
		c.Locals("playerRole", string(player.Role))

		// Pass control to the next middleware or route handler
		return c.Next()
	}
}

// roleFromClaim converts the raw role string from the JWT into our typed PlayerRole enum.
// If the claim is missing or unrecognised, it defaults to "player" (least privileged).
func roleFromClaim(s string) models.PlayerRole {
	switch s {
	case "admin":
		return models.PlayerRoleAdmin
	case "organizer":
		return models.PlayerRoleOrganizer
	default:
		// Unknown or empty role — default to regular player
		return models.PlayerRolePlayer
	}
}
