// internal/game/validator.go
// Pure, side-effect-free validation of game documents, proposed transitions,
// field updates and raw score batches. Nothing here mutates its input or
// panics; every function either returns a list of problems or a typed error.
package game

import (
	"fmt"

	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// ValidateGame checks the structural validity of a game document and returns
// every problem found. An empty result means the game is valid.
func ValidateGame(g *Game) []FieldError {
	var errs []FieldError

	if g == nil {
		return []FieldError{{Field: "game", Message: "game is required"}}
	}

	// Required identity and scheduling fields.
	if g.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "id is required"})
	}
	if g.Date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	}
	if g.Course == "" {
		errs = append(errs, FieldError{Field: "course", Message: "course is required"})
	}

	// Status, when present, must be a known value and must have its entry
	// timestamp recorded — a game claiming to be in_progress with no startedAt
	// is corrupt.
	if g.Status != "" {
		if !g.Status.Valid() {
			errs = append(errs, FieldError{
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", g.Status),
			})
		} else if g.TimestampFor(g.Status) == nil {
			errs = append(errs, FieldError{
				Field:   g.Status.TimestampField(),
				Message: fmt.Sprintf("timestamp for status %q is missing", g.Status),
			})
		}
	}

	// Numeric bounds.
	if g.EntryFee < 0 {
		errs = append(errs, FieldError{Field: "entryFee", Message: "entry fee cannot be negative"})
	}
	if g.Holes != 9 && g.Holes != 18 {
		errs = append(errs, FieldError{
			Field:   "holes",
			Message: fmt.Sprintf("holes must be 9 or 18, got %d", g.Holes),
		})
	} else if g.CTPHole != nil && (*g.CTPHole < 1 || *g.CTPHole > g.Holes) {
		errs = append(errs, FieldError{
			Field:   "ctpHole",
			Message: fmt.Sprintf("ctpHole must be between 1 and %d, got %d", g.Holes, *g.CTPHole),
		})
	}

	// Group shape.
	for i, grp := range g.Groups {
		if len(grp.PlayerIDs) > MaxGroupSize {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("groups[%d]", i),
				Message: fmt.Sprintf("a group holds at most %d players, got %d", MaxGroupSize, len(grp.PlayerIDs)),
			})
		}
	}

	return errs
}

// ValidateTransition reports whether a game currently in `current` may legally
// move to `target`. Returns nil when the transition is allowed, otherwise an
// *InvalidTransitionError carrying a human-readable reason.
func ValidateTransition(current, target Status) error {
	if CanTransition(current, target) {
		return nil
	}
	return &InvalidTransitionError{From: current, To: target}
}

// Patch carries a partial update to a game. Nil fields are "not changed";
// non-nil fields replace the current value. This is the Go rendering of a
// sparse JSON merge body: pointer fields distinguish "absent" from "zero".
type Patch struct {
	ID          *string  `json:"id,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Time        *string  `json:"time,omitempty"`
	Course      *string  `json:"course,omitempty"`
	Holes       *int     `json:"holes,omitempty"`
	EntryFee    *float64 `json:"entryFee,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	CTPHole     *int     `json:"ctpHole,omitempty"`
	CTPPlayerID *string  `json:"ctpPlayerId,omitempty"`
	WolfEnabled *bool    `json:"wolfEnabled,omitempty"`
	Status      *Status  `json:"status,omitempty"`
	Groups      *[]Group `json:"groups,omitempty"`
	Scores      *Scores  `json:"scores,omitempty"`

	PotSplits *scoring.PotOptions `json:"potSplits,omitempty"`
}

// hasNonStatusChange reports whether the patch touches anything besides the
// lifecycle status. Used to enforce the finalized-game freeze.
func (p *Patch) hasNonStatusChange() bool {
	return p.ID != nil || p.Date != nil || p.Time != nil || p.Course != nil ||
		p.Holes != nil || p.EntryFee != nil || p.Notes != nil ||
		p.CTPHole != nil || p.CTPPlayerID != nil || p.WolfEnabled != nil ||
		p.Groups != nil || p.Scores != nil || p.PotSplits != nil
}

// ValidateUpdates checks a proposed partial update against the current game:
//
//   - The id is immutable; any attempt to change it is rejected.
//   - A finalized game is frozen: the only change it accepts is the reversal
//     transition back to completed.
//   - A status change is validated as a lifecycle transition, never as a plain
//     field write.
//   - Bounds (holes, entryFee, ctpHole) are re-checked on the merged result so
//     an update can't sneak a game into an invalid shape.
//
// Returns nil when the update is acceptable, otherwise a *ValidationError or
// *InvalidTransitionError.
func ValidateUpdates(g *Game, p *Patch) error {
	if p == nil {
		return nil
	}

	if p.ID != nil && *p.ID != g.ID {
		return newValidationError("id", "game id cannot be changed")
	}

	if g.Status == StatusFinalized {
		if p.hasNonStatusChange() {
			return newValidationError("status", "a finalized game cannot be edited; un-finalize it first")
		}
		if p.Status != nil && *p.Status != StatusCompleted {
			return &InvalidTransitionError{From: g.Status, To: *p.Status}
		}
	}

	if p.Status != nil {
		if err := ValidateTransition(g.Status, *p.Status); err != nil {
			return err
		}
	}

	// Re-check bounds on the merged values.
	holes := g.Holes
	if p.Holes != nil {
		holes = *p.Holes
	}
	if holes != 9 && holes != 18 {
		return newValidationError("holes", fmt.Sprintf("holes must be 9 or 18, got %d", holes))
	}

	if p.EntryFee != nil && *p.EntryFee < 0 {
		return newValidationError("entryFee", "entry fee cannot be negative")
	}

	ctpHole := g.CTPHole
	if p.CTPHole != nil {
		ctpHole = p.CTPHole
	}
	if ctpHole != nil && (*ctpHole < 1 || *ctpHole > holes) {
		return newValidationError("ctpHole", fmt.Sprintf("ctpHole must be between 1 and %d", holes))
	}

	if p.Groups != nil {
		for i, grp := range *p.Groups {
			if len(grp.PlayerIDs) > MaxGroupSize {
				return newValidationError(
					fmt.Sprintf("groups[%d]", i),
					fmt.Sprintf("a group holds at most %d players", MaxGroupSize),
				)
			}
		}
	}

	return nil
}

// ValidateScores checks a batch of raw score entries. Every entry must name a
// player and carry a holes map, and every recorded score must be a positive
// stroke count. One bad entry fails the whole batch — partial application
// would leave the game's score sheet in an ambiguous state.
func ValidateScores(entries []RawScore) error {
	var errs []FieldError
	for i, entry := range entries {
		if entry.PlayerID == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("scores[%d].playerId", i),
				Message: "playerId is required",
			})
		}
		if entry.Holes == nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("scores[%d].holes", i),
				Message: "holes map is required",
			})
			continue
		}
		for hole, gross := range entry.Holes {
			if gross < 1 {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("scores[%d].holes[%d]", i, hole),
					Message: fmt.Sprintf("score must be a positive integer, got %d", gross),
				})
			}
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
