// Package storage defines the persistence interfaces the handlers depend on,
// plus their Postgres (GORM) and in-memory implementations.
//
// Handlers receive these interfaces via constructor injection rather than
// reaching for a process-wide store: the wiring happens once in main, and tests
// swap in the memory implementation without a database.
package storage

import (
	"context"
	"errors"

	"github.com/Bvictor-coder/skins-game/internal/game"
	"github.com/Bvictor-coder/skins-game/internal/models"
	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// ErrVersionConflict is returned by GameStore.Save when the game's version
// token doesn't match the stored row — i.e. someone else saved the game after
// this writer loaded it. The caller should reload, reapply, and retry.
var ErrVersionConflict = errors.New("storage: game was modified by another writer")

// GameStore persists game documents. Save enforces optimistic concurrency via
// the document's Version field and increments it on success.
type GameStore interface {
	Create(ctx context.Context, g *game.Game) error
	Get(ctx context.Context, id string) (*game.Game, error)
	List(ctx context.Context, status game.Status) ([]*game.Game, error) // status "" = all games
	Save(ctx context.Context, g *game.Game) error
	Delete(ctx context.Context, id string) error
}

// PlayerStore persists player records.
type PlayerStore interface {
	Create(ctx context.Context, p *models.Player) error
	Get(ctx context.Context, id string) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, p *models.Player) error
}

// CourseStore reads course and hole definitions. Holes returns the scoring
// view of a course — hole number, par and stroke index, ordered by hole
// number — which is exactly what the skins engine consumes.
type CourseStore interface {
	Get(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Holes(ctx context.Context, courseID string) ([]scoring.Hole, error)
}
