// internal/game/game.go
// Defines the Game document — the central record of the system — and its nested
// types. A Game is deliberately a plain data struct with JSON tags rather than a
// GORM model: the lifecycle core operates on documents, and the storage package
// decides how to persist them (currently a JSONB column in Postgres).
package game

import (
	"time"

	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// MaxGroupSize is the largest number of players allowed in a single group.
// Golf courses send players out in foursomes at most.
const MaxGroupSize = 4

// StatusChange is one entry in a game's status history — an append-only audit
// log of every lifecycle transition. Entries are never modified or removed after
// being appended; backward transitions append a new entry rather than erasing
// the old one, so the full story of a game (including corrections) is preserved.
type StatusChange struct {
	Status         Status            `json:"status"`                   // The status the game moved to
	Timestamp      time.Time         `json:"timestamp"`                // When the transition happened
	PreviousStatus Status            `json:"previousStatus,omitempty"` // The status it moved from; empty for the initial entry
	Metadata       map[string]string `json:"metadata,omitempty"`       // Optional context (e.g. who triggered it)
}

// Group is an ordered set of players who tee off together. The starting
// hole/position pair supports shotgun starts where groups begin on different
// holes ("10A", "10B"). The scorekeeper is the player responsible for entering
// the group's scores.
type Group struct {
	PlayerIDs        []string `json:"playerIds"`                  // Up to MaxGroupSize player ids, in playing order
	StartingHole     *int     `json:"startingHole,omitempty"`     // Hole the group starts on; nil = hole 1
	StartingPosition *string  `json:"startingPosition,omitempty"` // "A"/"B" slot when two groups share a starting hole
	ScorekeeperID    string   `json:"scorekeeperId,omitempty"`    // Player id of the designated scorekeeper
}

// RawScore holds one player's gross (actual strokes) scores for the round,
// keyed by hole number, together with the course handicap used to compute
// their net scores. This is the input to the skins engine.
type RawScore struct {
	PlayerID       string      `json:"playerId"`
	Holes          map[int]int `json:"holes"`          // hole number -> gross score; absent = not yet entered
	CourseHandicap float64     `json:"courseHandicap"` // stroke allowance for this round
}

// Scores bundles everything score-related on a game: the raw gross scores as
// entered, the calculated results ledger produced by the skins engine, and the
// lock flag set when the game is finalized.
//
// Locked stays true even if a game is un-finalized back to completed — the flag
// is a historical record of a completed settlement, and callers that want to
// re-open editing after an un-finalize must clear it explicitly. See
// Entity.CanModifyScores for how the flag interacts with status.
type Scores struct {
	Raw        []RawScore      `json:"raw"`
	Calculated *scoring.Ledger `json:"calculated,omitempty"`
	Locked     bool            `json:"locked,omitempty"`
}

// Game is the central document. Field names in the JSON tags are wire-stable:
// clients, the games table and the websocket feed all use these exact names.
//
// One nullable timestamp exists per lifecycle status. A timestamp is set when
// the status is first entered (and refreshed on re-entry) but never cleared by
// a backward transition — the historical record that a state was reached is
// permanent.
type Game struct {
	ID       string  `json:"id"`              // Opaque unique id; immutable after creation
	Date     string  `json:"date"`            // Round date, "YYYY-MM-DD"
	Time     string  `json:"time,omitempty"`  // First tee time, "HH:MM"
	Course   string  `json:"course"`          // Course id the round is played on
	Holes    int     `json:"holes"`           // 9 or 18 — nothing else is valid
	EntryFee float64 `json:"entryFee"`        // Per-player buy-in; must be >= 0
	Notes    string  `json:"notes,omitempty"` // Free-form organizer notes

	// PotSplits configures the percentage carve-outs for the secondary payout
	// categories; nil means the defaults (25% CTP, no other carve-outs).
	PotSplits *scoring.PotOptions `json:"potSplits,omitempty"`

	// Side-wager configuration.
	CTPHole     *int   `json:"ctpHole,omitempty"`     // Closest-to-pin hole, 1..Holes; nil = no CTP wager
	CTPPlayerID string `json:"ctpPlayerId,omitempty"` // Winner of the CTP wager, set during play
	WolfEnabled bool   `json:"wolfEnabled,omitempty"` // Whether the wolf side game is being played

	// Lifecycle.
	Status        Status         `json:"status,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory,omitempty"`

	// One timestamp per status ever entered; see the doc comment above.
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	OpenedAt              *time.Time `json:"openedAt,omitempty"`
	EnrollmentCompletedAt *time.Time `json:"enrollmentCompletedAt,omitempty"`
	StartedAt             *time.Time `json:"startedAt,omitempty"`
	CompletedAt           *time.Time `json:"completedAt,omitempty"`
	FinalizedAt           *time.Time `json:"finalizedAt,omitempty"`

	Groups []Group `json:"groups,omitempty"`
	Scores Scores  `json:"scores"`

	// Version is the optimistic-concurrency token. The storage layer increments
	// it on every save and rejects writes whose version doesn't match the stored
	// row, so two scorekeepers editing the same game get an explicit conflict
	// instead of silent last-write-wins.
	Version int `json:"version,omitempty"`
}

// timestampFor returns a pointer to the Game field holding the entry timestamp
// for the given status, or nil for an unknown status. Having a single mapping
// here keeps TransitionTo free of a status switch and guarantees the mapping
// stays total alongside statusTable.
func (g *Game) timestampFor(s Status) **time.Time {
	switch s {
	case StatusCreated:
		return &g.CreatedAt
	case StatusOpen:
		return &g.OpenedAt
	case StatusEnrollmentComplete:
		return &g.EnrollmentCompletedAt
	case StatusInProgress:
		return &g.StartedAt
	case StatusCompleted:
		return &g.CompletedAt
	case StatusFinalized:
		return &g.FinalizedAt
	default:
		return nil
	}
}

// TimestampFor returns the recorded entry time for a status, or nil if the
// game has never been in that state.
func (g *Game) TimestampFor(s Status) *time.Time {
	p := g.timestampFor(s)
	if p == nil {
		return nil
	}
	return *p
}

// Clone returns a deep copy of the game. Mutating the copy (or anything it
// contains) never affects the original — slices, maps and the calculated
// ledger are all duplicated, not shared.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g // copies all scalar fields and the timestamp pointers' addresses

	// Timestamp pointers must point at fresh values, not the original's.
	out.CreatedAt = cloneTime(g.CreatedAt)
	out.OpenedAt = cloneTime(g.OpenedAt)
	out.EnrollmentCompletedAt = cloneTime(g.EnrollmentCompletedAt)
	out.StartedAt = cloneTime(g.StartedAt)
	out.CompletedAt = cloneTime(g.CompletedAt)
	out.FinalizedAt = cloneTime(g.FinalizedAt)
	out.CTPHole = cloneInt(g.CTPHole)
	if g.PotSplits != nil {
		splits := scoring.PotOptions{
			CTPPercentage:         cloneFloat(g.PotSplits.CTPPercentage),
			LowNetPercentage:      cloneFloat(g.PotSplits.LowNetPercentage),
			SecondPlacePercentage: cloneFloat(g.PotSplits.SecondPlacePercentage),
		}
		out.PotSplits = &splits
	}

	if g.StatusHistory != nil {
		out.StatusHistory = make([]StatusChange, len(g.StatusHistory))
		for i, ch := range g.StatusHistory {
			out.StatusHistory[i] = ch
			if ch.Metadata != nil {
				md := make(map[string]string, len(ch.Metadata))
				for k, v := range ch.Metadata {
					md[k] = v
				}
				out.StatusHistory[i].Metadata = md
			}
		}
	}

	if g.Groups != nil {
		out.Groups = make([]Group, len(g.Groups))
		for i, grp := range g.Groups {
			out.Groups[i] = grp
			out.Groups[i].PlayerIDs = append([]string(nil), grp.PlayerIDs...)
			out.Groups[i].StartingHole = cloneInt(grp.StartingHole)
			if grp.StartingPosition != nil {
				pos := *grp.StartingPosition
				out.Groups[i].StartingPosition = &pos
			}
		}
	}

	if g.Scores.Raw != nil {
		out.Scores.Raw = make([]RawScore, len(g.Scores.Raw))
		for i, rs := range g.Scores.Raw {
			out.Scores.Raw[i] = rs
			if rs.Holes != nil {
				holes := make(map[int]int, len(rs.Holes))
				for h, v := range rs.Holes {
					holes[h] = v
				}
				out.Scores.Raw[i].Holes = holes
			}
		}
	}
	out.Scores.Calculated = g.Scores.Calculated.Clone()

	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
