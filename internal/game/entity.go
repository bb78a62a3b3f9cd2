// internal/game/entity.go
// Entity is the stateful wrapper around a Game document. It is the only place
// in the codebase that mutates a game: every transition, field update and score
// write flows through it so the lifecycle invariants hold by construction.
//
// An Entity is not safe for concurrent use — the system assumes single-writer
// access to a given game, and the storage layer's version token turns a violated
// assumption into an explicit conflict rather than corrupt data.
package game

import (
	"fmt"
	"time"

	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// Entity wraps a game document and owns its mutations. Construct one with New
// (brand-new game) or FromRecord (loaded from storage), call methods on it,
// then persist Snapshot().
type Entity struct {
	game Game

	// now is injectable so tests can pin transition timestamps.
	now func() time.Time
}

// New creates an entity for a brand-new game and performs the initial
// transition to created, stamping createdAt and the first history entry.
// The caller supplies the id (ids are opaque to this package).
func New(g Game) (*Entity, error) {
	e := FromRecord(g)
	if err := e.TransitionTo(StatusCreated); err != nil {
		return nil, err
	}
	return e, nil
}

// FromRecord wraps an existing game document loaded from storage. No
// validation happens here; callers that want structural checks run
// ValidateGame on the record first.
func FromRecord(g Game) *Entity {
	return &Entity{game: g, now: time.Now}
}

// WithClock replaces the entity's time source. Tests use this to make
// transition timestamps deterministic.
func (e *Entity) WithClock(now func() time.Time) *Entity {
	e.now = now
	return e
}

// Status returns the game's current lifecycle status.
func (e *Entity) Status() Status {
	return e.game.Status
}

// Snapshot returns a deep copy of the underlying game document — exactly the
// persisted field set, with no derived or transient state. Mutating the
// snapshot never affects the entity.
func (e *Entity) Snapshot() Game {
	return *e.game.Clone()
}

// CanTransitionTo reports whether the game may legally move to target from its
// current status.
func (e *Entity) CanTransitionTo(target Status) bool {
	return CanTransition(e.game.Status, target)
}

// TransitionTo moves the game to target. On success it:
//
//  1. Sets the status.
//  2. Stamps the status's timestamp field with the current time.
//  3. Appends a StatusChange entry to the history (as a new slice — history
//     entries already written are never touched).
//  4. For the finalized target only, sets scores.locked — unconditionally,
//     regardless of any prior lock state.
//
// Returns an *InvalidTransitionError if the move is not in the lifecycle
// graph; the game is left unchanged in that case.
func (e *Entity) TransitionTo(target Status) error {
	current := e.game.Status
	if err := ValidateTransition(current, target); err != nil {
		return err
	}

	ts := e.now()
	e.game.Status = target
	if p := e.game.timestampFor(target); p != nil {
		*p = &ts
	}

	// Append-only history: copy-and-append so previously returned snapshots
	// never observe in-place growth.
	history := make([]StatusChange, len(e.game.StatusHistory), len(e.game.StatusHistory)+1)
	copy(history, e.game.StatusHistory)
	e.game.StatusHistory = append(history, StatusChange{
		Status:         target,
		Timestamp:      ts,
		PreviousStatus: current,
	})

	if target == StatusFinalized {
		e.game.Scores.Locked = true
	}

	return nil
}

// Finalize is the guarded way to reach the finalized state. Unlike a raw
// TransitionTo(finalized) it requires that the game is currently completed and
// that a calculated results ledger exists — finalizing a game with nothing to
// lock in would settle a pot that was never computed.
func (e *Entity) Finalize() error {
	if e.game.Status != StatusCompleted {
		return &FinalizationError{
			Reason: fmt.Sprintf("game must be completed first, current status is %q", e.game.Status),
		}
	}
	if e.game.Scores.Calculated == nil {
		return &FinalizationError{Reason: "results have not been calculated yet"}
	}
	return e.TransitionTo(StatusFinalized)
}

// Update applies a partial update to the game after running it through
// ValidateUpdates. A status change in the patch is executed as a proper
// lifecycle transition (never merged as a plain field write), and it runs
// after the field merges: a patch that both edits scores and finalizes must
// end up locked, not have the merge clobber the lock the transition just set.
//
// A scores update that omits the calculated block preserves any pre-existing
// calculated results — a client re-sending raw scores must never silently
// discard a computed ledger.
func (e *Entity) Update(p Patch) error {
	if err := ValidateUpdates(&e.game, &p); err != nil {
		return err
	}

	if p.Date != nil {
		e.game.Date = *p.Date
	}
	if p.Time != nil {
		e.game.Time = *p.Time
	}
	if p.Course != nil {
		e.game.Course = *p.Course
	}
	if p.Holes != nil {
		e.game.Holes = *p.Holes
	}
	if p.EntryFee != nil {
		e.game.EntryFee = *p.EntryFee
	}
	if p.Notes != nil {
		e.game.Notes = *p.Notes
	}
	if p.CTPHole != nil {
		hole := *p.CTPHole
		e.game.CTPHole = &hole
	}
	if p.CTPPlayerID != nil {
		e.game.CTPPlayerID = *p.CTPPlayerID
	}
	if p.WolfEnabled != nil {
		e.game.WolfEnabled = *p.WolfEnabled
	}
	if p.PotSplits != nil {
		splits := *p.PotSplits
		e.game.PotSplits = &splits
	}
	if p.Groups != nil {
		groups := make([]Group, len(*p.Groups))
		copy(groups, *p.Groups)
		e.game.Groups = groups
	}
	if p.Scores != nil {
		incoming := *p.Scores
		if incoming.Calculated == nil {
			// Preserve computed results when the update doesn't carry them.
			incoming.Calculated = e.game.Scores.Calculated
		}
		e.game.Scores = incoming
	}

	if p.Status != nil {
		if err := e.TransitionTo(*p.Status); err != nil {
			return err
		}
	}

	return nil
}

// UpdateScores validates and replaces the raw score entries, preserving any
// calculated ledger already attached. Callers gate on CanModifyScores before
// calling; this method itself only enforces structural validity.
func (e *Entity) UpdateScores(entries []RawScore) error {
	if err := ValidateScores(entries); err != nil {
		return err
	}
	raw := make([]RawScore, len(entries))
	copy(raw, entries)
	e.game.Scores.Raw = raw
	return nil
}

// SetCalculatedScores attaches a computed results ledger to the game. It is
// unconditional — recalculating over an existing ledger simply replaces it.
func (e *Entity) SetCalculatedScores(ledger *scoring.Ledger) {
	e.game.Scores.Calculated = ledger
}

// CanModifyScores reports whether raw scores may currently be edited: only
// while the round is in progress or completed-but-not-finalized. The lock-flag
// clause is a second line of defence — a finalized game already fails the
// status check, but after a completed -> finalized -> completed round trip the
// locked flag survives, and callers that want to re-open editing must clear it
// deliberately rather than having it vanish as a side effect.
func (e *Entity) CanModifyScores() bool {
	s := e.game.Status
	if s != StatusInProgress && s != StatusCompleted {
		return false
	}
	return !(s == StatusFinalized && e.game.Scores.Locked)
}

// UnlockScores clears the lock flag after an un-finalize. This is the explicit
// opt-in for re-editing a previously settled game; nothing clears the flag
// implicitly.
func (e *Entity) UnlockScores() {
	e.game.Scores.Locked = false
}
