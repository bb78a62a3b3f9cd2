// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go
// values. The struct field tags (the backtick strings like `gorm:"..."`) tell GORM
// how to handle each field: its column type, constraints, and defaults.
//
// The data model is deliberately small. Players and courses are classic relational
// rows, but a game is stored as a single document: the lifecycle core operates on
// a nested game.Game record (status history, groups, raw and calculated scores),
// and decomposing that into a dozen join tables would force every read-modify-write
// through an expensive reassembly. Instead the games table keeps the whole document
// in a JSONB column, with the status and version lifted into real columns so they
// can be indexed and used for optimistic locking.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// UUIDs are safe to generate client-side and don't leak record counts.
	"github.com/google/uuid"

	"github.com/Bvictor-coder/skins-game/internal/game"
)

// PlayerRole represents a player's permission level on the platform.
type PlayerRole string

const (
	PlayerRoleAdmin     PlayerRole = "admin"     // Full access: manage players, games, everything
	PlayerRoleOrganizer PlayerRole = "organizer" // Can create games, manage sign-ups, finalize results
	PlayerRolePlayer    PlayerRole = "player"    // Regular player: signs up, enters scores for their group
)

// Player represents a registered person in the group.
// Players are created on sign-up (or lazily on first authenticated request)
// and are referenced by id from game documents — the games table never embeds
// player details, only ids.
type Player struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string     `gorm:"not null"`                                   // Display name shown on scorecards and results
	Email         string     `gorm:"uniqueIndex;not null"`                       // Unique email; doubles as the sign-in identity
	HandicapIndex float64    `gorm:"type:decimal(4,1);not null;default:0"`       // WHS handicap index (e.g. 14.2); 0-40 typical, no hard cap
	Role          PlayerRole `gorm:"type:player_role;not null;default:'player'"` // Permission level; synced from the auth token's role claim
	CreatedAt     time.Time  // GORM automatically sets this on create
	UpdatedAt     time.Time  // GORM automatically updates this on every save
}

// Course represents a golf course the group plays.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	State     string    `gorm:"not null;default:''"`
	HoleCount int       `gorm:"not null;default:18"` // 18 or 9
	CreatedAt time.Time
	UpdatedAt time.Time
	Holes     []Hole `gorm:"foreignKey:CourseID"` // One-to-many: per-hole par and difficulty ranking
}

// Hole stores the static definition of one hole: its par and its stroke index.
// The stroke index is the difficulty ranking used for handicap allocation —
// 1 is the hardest hole on the course and receives handicap strokes first,
// 18 the easiest. Each ranking appears exactly once per course.
type Hole struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_hole"`
	Course      Course    `gorm:"foreignKey:CourseID"`
	HoleNumber  int       `gorm:"not null;uniqueIndex:idx_course_hole"` // 1-18 (or 1-9)
	Par         int       `gorm:"not null"`                             // Expected strokes (3, 4, or 5)
	StrokeIndex int       `gorm:"not null"`                             // Handicap allocation rank: 1 = hardest
	Yardage     *int      // Distance in yards; optional, display only
}

// GameRow is the persisted form of a game document.
//
// The Document column holds the full game.Game record serialized to JSONB via
// GORM's json serializer. Status and Version shadow fields inside the document,
// lifted out so that:
//   - Status can be indexed and filtered on ("show me open games") without
//     JSON operators in every query.
//   - Version backs the optimistic-concurrency check: saves are conditional
//     UPDATEs on (id, version), so a stale writer gets a conflict instead of
//     silently overwriting another scorekeeper's edits.
//
// The storage layer keeps the shadow columns in sync with the document; nothing
// else writes this table.
type GameRow struct {
	ID        string      `gorm:"primaryKey"`                          // Opaque game id (a UUID string, generated at creation)
	Status    game.Status `gorm:"type:text;not null;index"`            // Copy of Document.Status for indexed queries
	Version   int         `gorm:"not null;default:0"`                  // Optimistic-concurrency token
	Document  game.Game   `gorm:"type:jsonb;serializer:json;not null"` // The full game document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization ("game_rows") — the table
// is simply called games.
func (GameRow) TableName() string { return "games" }
