// internal/storage/gorm.go
// GORM-backed implementations of the store interfaces. Games live in a single
// JSONB document column (see models.GameRow); players and courses are plain
// relational rows.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bvictor-coder/skins-game/internal/game"
	"github.com/Bvictor-coder/skins-game/internal/models"
	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// GormGameStore persists game documents in the games table.
type GormGameStore struct {
	db *gorm.DB
}

// NewGormGameStore wraps a GORM handle in a GameStore.
func NewGormGameStore(db *gorm.DB) *GormGameStore {
	return &GormGameStore{db: db}
}

// Create inserts a brand-new game document at version 0.
func (s *GormGameStore) Create(ctx context.Context, g *game.Game) error {
	g.Version = 0
	row := models.GameRow{
		ID:       g.ID,
		Status:   g.Status,
		Version:  g.Version,
		Document: *g,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// Get loads a game document by id.
func (s *GormGameStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var row models.GameRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// The shadow columns are authoritative for version; the document in the
	// column was written at that version.
	row.Document.Version = row.Version
	return &row.Document, nil
}

// List returns all games, optionally filtered by status, newest date first.
func (s *GormGameStore) List(ctx context.Context, status game.Status) ([]*game.Game, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.GameRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	games := make([]*game.Game, len(rows))
	for i := range rows {
		rows[i].Document.Version = rows[i].Version
		games[i] = &rows[i].Document
	}
	return games, nil
}

// Save writes an updated game document. The UPDATE is conditional on the
// version the caller loaded; if another writer saved the game in between,
// zero rows match and the caller gets ErrVersionConflict. On success the
// document's Version is bumped to the newly stored value.
func (s *GormGameStore) Save(ctx context.Context, g *game.Game) error {
	next := *g
	next.Version = g.Version + 1

	// Struct-based Updates (rather than a map) so the Document field goes
	// through the json serializer; Select forces the write even if a field
	// happens to hold its zero value.
	res := s.db.WithContext(ctx).
		Model(&models.GameRow{}).
		Where("id = ? AND version = ?", g.ID, g.Version).
		Select("Status", "Version", "Document").
		Updates(&models.GameRow{
			Status:   next.Status,
			Version:  next.Version,
			Document: next,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the game doesn't exist or the version moved under us.
		// Distinguish the two so callers can give an accurate error.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.GameRow{}).
			Where("id = ?", g.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	g.Version = next.Version
	return nil
}

// Delete removes a game row. Deleting is an administrative storage operation —
// the lifecycle core itself never deletes games.
func (s *GormGameStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.GameRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormPlayerStore persists players.
type GormPlayerStore struct {
	db *gorm.DB
}

func NewGormPlayerStore(db *gorm.DB) *GormPlayerStore {
	return &GormPlayerStore{db: db}
}

func (s *GormPlayerStore) Create(ctx context.Context, p *models.Player) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormPlayerStore) Get(ctx context.Context, id string) (*models.Player, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p models.Player
	err = s.db.WithContext(ctx).First(&p, "id = ?", pid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormPlayerStore) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	var p models.Player
	err := s.db.WithContext(ctx).First(&p, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormPlayerStore) List(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := s.db.WithContext(ctx).Order("name").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (s *GormPlayerStore) Update(ctx context.Context, p *models.Player) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// GormCourseStore reads courses and their hole definitions.
type GormCourseStore struct {
	db *gorm.DB
}

func NewGormCourseStore(db *gorm.DB) *GormCourseStore {
	return &GormCourseStore{db: db}
}

func (s *GormCourseStore) Get(ctx context.Context, id string) (*models.Course, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var c models.Course
	// Preload the holes so callers get the full course in one round trip.
	err = s.db.WithContext(ctx).Preload("Holes").First(&c, "id = ?", cid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormCourseStore) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("name").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// Holes returns the scoring view of a course's holes, ordered by hole number.
func (s *GormCourseStore) Holes(ctx context.Context, courseID string) ([]scoring.Hole, error) {
	cid, err := uuid.Parse(courseID)
	if err != nil {
		return nil, ErrNotFound
	}
	var rows []models.Hole
	if err := s.db.WithContext(ctx).
		Where("course_id = ?", cid).
		Order("hole_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	holes := make([]scoring.Hole, len(rows))
	for i, h := range rows {
		holes[i] = scoring.Hole{Number: h.HoleNumber, Par: h.Par, StrokeIndex: h.StrokeIndex}
	}
	return holes, nil
}
