// Package game implements the lifecycle core of the Skins Game API: the status
// state machine, structural validation, and the GameEntity wrapper that owns all
// mutations of a game record.
//
// Everything in this package is pure and synchronous — no database calls, no
// HTTP, no goroutines. Handlers load a game document from storage, wrap it in an
// Entity, apply transitions or score updates, and persist the snapshot that comes
// back out. Keeping the package free of I/O is what makes the state machine easy
// to test exhaustively.
package game

// Status tracks where a game is in its lifecycle, from creation through
// enrollment and play to the final locked settlement.
//
// Go doesn't have a built-in enum keyword, so we simulate one using a named
// string type plus constants. The string values are wire-stable: they appear
// verbatim in JSON payloads and in the games table, so they must never change.
type Status string

const (
	StatusCreated            Status = "created"             // Game exists but sign-up hasn't opened
	StatusOpen               Status = "open"                // Players can sign up
	StatusEnrollmentComplete Status = "enrollment_complete" // Sign-up closed; groups can be formed
	StatusInProgress         Status = "in_progress"         // Round is being played; scores can be entered
	StatusCompleted          Status = "completed"           // Play finished; results can be calculated
	StatusFinalized          Status = "finalized"           // Results locked; payouts settled
)

// statusInfo holds the per-status metadata: the display label shown in clients,
// the JSON field name of the timestamp recorded when the status is entered, and
// the set of statuses it may legally move to.
//
// Most transitions are bidirectional so an organizer can correct a mistake
// (e.g. reopening enrollment after closing it too early), but the edges are
// asymmetric: a created game can only move forward, and a finalized game can
// only be unwound one step back to completed.
type statusInfo struct {
	Label          string // Human-readable name for UI display
	TimestampField string // JSON name of the timestamp stamped on entry
	Forward        Status // Next status in the normal lifecycle ("" = terminal)
	Backward       Status // Correction target ("" = cannot go back)
}

// statusTable is the single source of truth for the state machine. Every status
// must have an entry here with a non-empty TimestampField — adding a status
// without its timestamp mapping is a defect, and TestStatusTableIsExhaustive
// guards against it.
var statusTable = map[Status]statusInfo{
	StatusCreated: {
		Label:          "Created",
		TimestampField: "createdAt",
		Forward:        StatusOpen,
	},
	StatusOpen: {
		Label:          "Open for Sign-up",
		TimestampField: "openedAt",
		Forward:        StatusEnrollmentComplete,
		Backward:       StatusCreated,
	},
	StatusEnrollmentComplete: {
		Label:          "Enrollment Complete",
		TimestampField: "enrollmentCompletedAt",
		Forward:        StatusInProgress,
		Backward:       StatusOpen,
	},
	StatusInProgress: {
		Label:          "In Progress",
		TimestampField: "startedAt",
		Forward:        StatusCompleted,
		Backward:       StatusEnrollmentComplete,
	},
	StatusCompleted: {
		Label:          "Completed",
		TimestampField: "completedAt",
		Forward:        StatusFinalized,
		Backward:       StatusInProgress,
	},
	StatusFinalized: {
		Label:          "Finalized",
		TimestampField: "finalizedAt",
		Backward:       StatusCompleted,
	},
}

// statusOrder lists every status in lifecycle order. Used for iteration in
// validation and tests; the map above can't provide a stable order on its own.
var statusOrder = []Status{
	StatusCreated,
	StatusOpen,
	StatusEnrollmentComplete,
	StatusInProgress,
	StatusCompleted,
	StatusFinalized,
}

// AllStatuses returns every known status in lifecycle order.
// It returns a copy so callers can't reorder the canonical slice.
func AllStatuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Valid reports whether s is one of the six known lifecycle statuses.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Label returns the human-readable display name for the status, or the raw
// string value if the status is unknown (so bad data is still visible in UIs).
func (s Status) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.Label
	}
	return string(s)
}

// TimestampField returns the JSON field name of the timestamp recorded when
// this status is entered (e.g. "startedAt" for in_progress). Empty for unknown
// statuses.
func (s Status) TimestampField() string {
	return statusTable[s].TimestampField
}

// ForwardOf returns the next status in the normal lifecycle, or "" when the
// status is terminal (finalized) or unknown.
func ForwardOf(s Status) Status {
	return statusTable[s].Forward
}

// BackwardOf returns the correction target one step back, or "" when the
// status cannot be unwound (created) or is unknown.
func BackwardOf(s Status) Status {
	return statusTable[s].Backward
}

// CanTransition reports whether a game currently in `from` may legally move to
// `to`. A transition is legal iff `to` is the forward or backward neighbour of
// `from` in the lifecycle graph. A game with no status yet (from == "") may
// only be initialized to created.
func CanTransition(from, to Status) bool {
	if from == "" {
		return to == StatusCreated
	}
	info, ok := statusTable[from]
	if !ok || !to.Valid() {
		return false
	}
	return to == info.Forward || to == info.Backward
}
