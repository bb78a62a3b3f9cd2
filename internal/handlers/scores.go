// Package handlers contains HTTP route handler functions for the Skins Game API.
// This file handles score entry and settlement: submitting raw hole scores,
// calculating the skins results and pot split, and finalizing (locking) a game.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bvictor-coder/skins-game/internal/game"
	"github.com/Bvictor-coder/skins-game/internal/scoring"
	"github.com/Bvictor-coder/skins-game/internal/storage"
)

// SubmitScoresRequest is the body for PUT /api/v1/games/:id/scores — the full
// raw score sheet for the round. The whole sheet is replaced on every submit;
// scorekeepers send the complete state of their card, which sidesteps
// per-hole merge questions entirely.
type SubmitScoresRequest struct {
	Scores []game.RawScore `json:"scores" validate:"required"`
}

// SubmitScores returns a handler for PUT /api/v1/games/:id/scores.
// Scores can only be edited while the game is in progress or completed (and
// not locked by a prior finalize). Watchers get a scores event over the
// websocket feed so live leaderboards update instantly.
func SubmitScores(games storage.GameStore, broadcast Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SubmitScoresRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}

		entity := game.FromRecord(*g)
		if !entity.CanModifyScores() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "scores cannot be modified in the game's current state",
			})
		}
		if err := entity.UpdateScores(req.Scores); err != nil {
			return coreError(c, err)
		}

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}

		broadcastEvent(broadcast, doc.ID, "scores_updated", fiber.Map{
			"scores": doc.Scores.Raw,
		})
		return c.JSON(doc)
	}
}

// ResultsResponse bundles the calculated ledger with the pot breakdown it was
// paid out from.
type ResultsResponse struct {
	Ledger *scoring.Ledger      `json:"ledger"`
	Pot    scoring.PotBreakdown `json:"pot"`
}

// CalculateResults returns a handler for POST /api/v1/games/:id/results.
// It runs the skins engine over the raw scores, splits the pot, attaches the
// resulting ledger to the game, and persists it. Recalculating is idempotent —
// running it again simply replaces the ledger — so an organizer can fix a
// mis-entered score and recalculate as long as the game isn't finalized.
func CalculateResults(games storage.GameStore, players storage.PlayerStore, courses storage.CourseStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}
		if g.Status == game.StatusFinalized {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "game is finalized; un-finalize it before recalculating",
			})
		}
		if len(g.Scores.Raw) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "no scores have been entered",
			})
		}

		// The scoring inputs come straight from the game document: the raw
		// score sheet names the players and their course handicaps, and the
		// course store provides the hole definitions (par + stroke index).
		holes, err := courses.Holes(c.Context(), g.Course)
		if err != nil {
			return coreError(c, err)
		}
		if len(holes) > g.Holes {
			// A 9-hole game on an 18-hole course scores the front nine.
			holes = holes[:g.Holes]
		}

		scoringPlayers := make([]scoring.Player, len(g.Scores.Raw))
		gross := make(map[string]map[int]int, len(g.Scores.Raw))
		for i, entry := range g.Scores.Raw {
			name := entry.PlayerID
			if p, err := players.Get(c.Context(), entry.PlayerID); err == nil {
				name = p.Name
			}
			scoringPlayers[i] = scoring.Player{
				ID:             entry.PlayerID,
				Name:           name,
				CourseHandicap: entry.CourseHandicap,
			}
			gross[entry.PlayerID] = entry.Holes
		}

		ledger := scoring.CalculateGameSkins(scoringPlayers, holes, gross)

		var opts scoring.PotOptions
		if g.PotSplits != nil {
			opts = *g.PotSplits
		}
		pot := scoring.CalculatePot(len(scoringPlayers), g.EntryFee, opts, ledger.TotalSkins)
		ledger.ApplyPayouts(pot.SkinValue)

		entity := game.FromRecord(*g)
		entity.SetCalculatedScores(ledger)

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}

		return c.JSON(ResultsResponse{Ledger: ledger, Pot: pot})
	}
}

// GetResults returns a handler for GET /api/v1/games/:id/results — the stored
// ledger plus the pot breakdown recomputed from the game's configuration (the
// pot split is a pure function of player count, entry fee, splits and total
// skins, so it doesn't need to be stored).
func GetResults(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}
		if g.Scores.Calculated == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "results have not been calculated",
			})
		}
		var opts scoring.PotOptions
		if g.PotSplits != nil {
			opts = *g.PotSplits
		}
		pot := scoring.CalculatePot(len(g.Scores.Raw), g.EntryFee, opts, g.Scores.Calculated.TotalSkins)
		return c.JSON(ResultsResponse{Ledger: g.Scores.Calculated, Pot: pot})
	}
}

// FinalizeGame returns a handler for POST /api/v1/games/:id/finalize.
// Finalizing is the terminal lifecycle action: it requires the game to be
// completed with calculated results, moves it to finalized, and locks the
// scores against further edits.
func FinalizeGame(games storage.GameStore, broadcast Broadcaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}

		entity := game.FromRecord(*g)
		if err := entity.Finalize(); err != nil {
			return coreError(c, err)
		}

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}

		broadcastEvent(broadcast, doc.ID, "finalized", fiber.Map{
			"results": doc.Scores.Calculated,
		})
		return c.JSON(doc)
	}
}

// UnfinalizeGame returns a handler for POST /api/v1/games/:id/unfinalize —
// the one-step reversal from finalized back to completed, for correcting a
// settlement that was locked in too early.
//
// The scores stay locked after un-finalizing: the lock records that a
// settlement happened and nothing clears it implicitly. Pass ?unlock=true to
// also re-open score editing.
func UnfinalizeGame(games storage.GameStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := loadGame(c, games)
		if err != nil {
			return coreError(c, err)
		}

		// Only the finalized -> completed reversal belongs to this route; a raw
		// TransitionTo here would also accept in_progress -> completed.
		if g.Status != game.StatusFinalized {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "game is not finalized",
			})
		}

		entity := game.FromRecord(*g)
		if err := entity.TransitionTo(game.StatusCompleted); err != nil {
			return coreError(c, err)
		}
		if c.QueryBool("unlock") {
			entity.UnlockScores()
		}

		doc := entity.Snapshot()
		if err := games.Save(c.Context(), &doc); err != nil {
			return coreError(c, err)
		}
		return c.JSON(doc)
	}
}
