// internal/handlers/games_test.go
// End-to-end tests for the games API over the in-memory store: the full
// lifecycle from creation through finalization, driven the way a client
// would drive it.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bvictor-coder/skins-game/internal/game"
	"github.com/Bvictor-coder/skins-game/internal/models"
	"github.com/Bvictor-coder/skins-game/internal/scoring"
	"github.com/Bvictor-coder/skins-game/internal/storage"
)

const testCourseID = "5e9a1e6a-5a2f-4f5e-9c37-2b45d1a9f001"

// stubCourseStore serves a single course with a flat layout: par 4s with
// stroke index equal to the hole number.
type stubCourseStore struct{}

func (stubCourseStore) Get(_ context.Context, id string) (*models.Course, error) {
	if id != testCourseID {
		return nil, storage.ErrNotFound
	}
	return &models.Course{Name: "Monarch Bay", HoleCount: 18}, nil
}

func (stubCourseStore) List(_ context.Context) ([]models.Course, error) {
	return []models.Course{{Name: "Monarch Bay", HoleCount: 18}}, nil
}

func (stubCourseStore) Holes(_ context.Context, courseID string) ([]scoring.Hole, error) {
	if courseID != testCourseID {
		return nil, storage.ErrNotFound
	}
	holes := make([]scoring.Hole, 18)
	for i := range holes {
		holes[i] = scoring.Hole{Number: i + 1, Par: 4, StrokeIndex: i + 1}
	}
	return holes, nil
}

// stubPlayerStore resolves names for a fixed roster and reports everyone else
// as unknown, which exercises the fall-back-to-id path in results.
type stubPlayerStore struct{ names map[string]string }

func (s stubPlayerStore) Get(_ context.Context, id string) (*models.Player, error) {
	name, ok := s.names[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &models.Player{Name: name}, nil
}

func (s stubPlayerStore) GetByEmail(_ context.Context, _ string) (*models.Player, error) {
	return nil, storage.ErrNotFound
}
func (s stubPlayerStore) Create(_ context.Context, _ *models.Player) error { return nil }
func (s stubPlayerStore) Update(_ context.Context, _ *models.Player) error { return nil }
func (s stubPlayerStore) List(_ context.Context) ([]models.Player, error) {
	return nil, nil
}

// newTestApp wires the games routes onto a fresh app backed by the memory
// store, without the auth middleware in front.
func newTestApp() (*fiber.App, *storage.MemoryGameStore) {
	games := storage.NewMemoryGameStore()
	courses := stubCourseStore{}
	players := stubPlayerStore{names: map[string]string{"p1": "Al", "p2": "Bo"}}

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/games", GetGames(games))
	api.Post("/games", CreateGame(games, courses))
	api.Get("/games/:id", GetGame(games))
	api.Patch("/games/:id", UpdateGame(games))
	api.Delete("/games/:id", DeleteGame(games))
	api.Post("/games/:id/status", TransitionGame(games, nil))
	api.Put("/games/:id/scores", SubmitScores(games, nil))
	api.Get("/games/:id/results", GetResults(games))
	api.Post("/games/:id/results", CalculateResults(games, players, courses))
	api.Post("/games/:id/finalize", FinalizeGame(games, nil))
	api.Post("/games/:id/unfinalize", UnfinalizeGame(games))
	return app, games
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeGame(t *testing.T, resp *http.Response) game.Game {
	t.Helper()
	defer resp.Body.Close()
	var g game.Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	return g
}

func createTestGame(t *testing.T, app *fiber.App) game.Game {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games", fiber.Map{
		"date":     "2026-04-18",
		"time":     "08:00",
		"course":   testCourseID,
		"holes":    18,
		"entryFee": 20,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeGame(t, resp)
}

// advanceTo walks the game forward through the lifecycle one legal step at a
// time, from wherever it currently is, until it reaches the target status.
func advanceTo(t *testing.T, app *fiber.App, id string, target game.Status) game.Game {
	t.Helper()
	g := decodeGame(t, doJSON(t, app, fiber.MethodGet, "/api/v1/games/"+id, nil))
	started := false
	for _, s := range game.AllStatuses() {
		if !started {
			started = s == g.Status
			continue
		}
		resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+id+"/status", fiber.Map{
			"status": s,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		g = decodeGame(t, resp)
		if s == target {
			break
		}
	}
	return g
}

func TestCreateGameStartsLifecycle(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, game.StatusCreated, g.Status)
	assert.NotNil(t, g.CreatedAt)
	require.Len(t, g.StatusHistory, 1)
	assert.Equal(t, game.StatusCreated, g.StatusHistory[0].Status)
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"bad hole count", fiber.Map{"date": "2026-04-18", "course": testCourseID, "holes": 12}},
		{"bad date", fiber.Map{"date": "April 18th", "course": testCourseID, "holes": 18}},
		{"negative entry fee", fiber.Map{"date": "2026-04-18", "course": testCourseID, "holes": 18, "entryFee": -5}},
		{"ctp beyond last hole", fiber.Map{"date": "2026-04-18", "course": testCourseID, "holes": 9, "ctpHole": 12}},
		{"unknown course", fiber.Map{"date": "2026-04-18", "course": "17a2e90e-30cb-4b5c-9e3b-000000000000", "holes": 18}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTransitionWalksTheLifecycle(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	got := advanceTo(t, app, g.ID, game.StatusInProgress)

	assert.Equal(t, game.StatusInProgress, got.Status)
	assert.NotNil(t, got.OpenedAt)
	assert.NotNil(t, got.EnrollmentCompletedAt)
	assert.NotNil(t, got.StartedAt)
	assert.Len(t, got.StatusHistory, 4)
}

func TestTransitionRejectsIllegalJump(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/status", fiber.Map{
		"status": "completed",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// The conflict body tells the client where the game can actually go.
	var body struct {
		Allowed []game.Status `json:"allowed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, []game.Status{game.StatusOpen}, body.Allowed)

	// The failed transition must not have touched the stored game.
	got := decodeGame(t, doJSON(t, app, fiber.MethodGet, "/api/v1/games/"+g.ID, nil))
	assert.Equal(t, game.StatusCreated, got.Status)
	assert.Len(t, got.StatusHistory, 1)
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	a := createTestGame(t, app)
	createTestGame(t, app)
	advanceTo(t, app, a.ID, game.StatusOpen)

	resp := doJSON(t, app, fiber.MethodGet, "/api/v1/games?status=open", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var list []game.Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/games?status=rained_out", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePatchesFields(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	resp := doJSON(t, app, fiber.MethodPatch, "/api/v1/games/"+g.ID, fiber.Map{
		"notes":    "shotgun start",
		"entryFee": 25,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeGame(t, resp)
	assert.Equal(t, "shotgun start", got.Notes)
	assert.Equal(t, 25.0, got.EntryFee)
	assert.Equal(t, "2026-04-18", got.Date) // untouched fields survive
}

func TestUpdateRejectsIDChange(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	resp := doJSON(t, app, fiber.MethodPatch, "/api/v1/games/"+g.ID, fiber.Map{
		"id": "something-else",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScoreSubmissionGatedByStatus(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	scores := fiber.Map{"scores": []game.RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 4}, CourseHandicap: 9},
	}}

	// Not accepting scores before the round starts.
	resp := doJSON(t, app, fiber.MethodPut, "/api/v1/games/"+g.ID+"/scores", scores)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	advanceTo(t, app, g.ID, game.StatusInProgress)
	resp = doJSON(t, app, fiber.MethodPut, "/api/v1/games/"+g.ID+"/scores", scores)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeGame(t, resp)
	require.Len(t, got.Scores.Raw, 1)
	assert.Equal(t, "p1", got.Scores.Raw[0].PlayerID)
}

func fullCard(base int) map[int]int {
	card := make(map[int]int, 18)
	for h := 1; h <= 18; h++ {
		card[h] = base
	}
	return card
}

func TestResultsAndSettlement(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	advanceTo(t, app, g.ID, game.StatusInProgress)

	// p1 plays scratch, p2 gets 18 strokes. Identical gross cards, so p2's
	// half strokes win every hole.
	resp := doJSON(t, app, fiber.MethodPut, "/api/v1/games/"+g.ID+"/scores", fiber.Map{
		"scores": []game.RawScore{
			{PlayerID: "p1", Holes: fullCard(4), CourseHandicap: 0},
			{PlayerID: "p2", Holes: fullCard(4), CourseHandicap: 18},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	advanceTo(t, app, g.ID, game.StatusCompleted)

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/results", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var results ResultsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	resp.Body.Close()

	require.NotNil(t, results.Ledger)
	assert.Equal(t, 18, results.Ledger.TotalSkins)
	require.Len(t, results.Ledger.PlayerResults, 2)
	assert.Equal(t, "p2", results.Ledger.PlayerResults[0].PlayerID)
	assert.Equal(t, "Bo", results.Ledger.PlayerResults[0].Name)
	assert.Equal(t, 18, results.Ledger.PlayerResults[0].SkinsWon)

	// 2 players x $20 = $40 pot, 25% CTP leaves $30 for 18 skins.
	assert.Equal(t, 40.0, results.Pot.Total)
	assert.Equal(t, 10.0, results.Pot.CTP)
	assert.InDelta(t, 30.0/18.0, results.Pot.SkinValue, 1e-9)
	assert.InDelta(t, 30.0, results.Ledger.PlayerResults[0].Winnings, 1e-9)

	// Finalize locks it all down.
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/finalize", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeGame(t, resp)
	assert.Equal(t, game.StatusFinalized, got.Status)
	assert.True(t, got.Scores.Locked)

	resp = doJSON(t, app, fiber.MethodPut, "/api/v1/games/"+g.ID+"/scores", fiber.Map{
		"scores": []game.RawScore{{PlayerID: "p1", Holes: fullCard(5)}},
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/results", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Stored results stay readable after finalizing.
	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/games/"+g.ID+"/results", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stored ResultsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	resp.Body.Close()
	assert.Equal(t, 18, stored.Ledger.TotalSkins)
	assert.Equal(t, 40.0, stored.Pot.Total)
}

func TestFinalizeRequiresCalculatedResults(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	advanceTo(t, app, g.ID, game.StatusCompleted)

	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/finalize", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUnfinalizeReopensTheGame(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	advanceTo(t, app, g.ID, game.StatusInProgress)
	resp := doJSON(t, app, fiber.MethodPut, "/api/v1/games/"+g.ID+"/scores", fiber.Map{
		"scores": []game.RawScore{{PlayerID: "p1", Holes: fullCard(4)}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	advanceTo(t, app, g.ID, game.StatusCompleted)

	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/results", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/finalize", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Un-finalize without unlocking: back to completed, scores still locked.
	resp = doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/unfinalize", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeGame(t, resp)
	assert.Equal(t, game.StatusCompleted, got.Status)
	assert.True(t, got.Scores.Locked)
	assert.NotNil(t, got.FinalizedAt) // history of the settlement survives
}

func TestUnfinalizeRequiresFinalizedGame(t *testing.T) {
	t.Parallel()
	app, games := newTestApp()

	g := createTestGame(t, app)
	advanceTo(t, app, g.ID, game.StatusInProgress)

	// Un-finalizing an in-progress game must not sneak in the forward
	// transition to completed.
	resp := doJSON(t, app, fiber.MethodPost, "/api/v1/games/"+g.ID+"/unfinalize", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	stored, err := games.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusInProgress, stored.Status)
}

func TestDeleteGame(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp()

	g := createTestGame(t, app)
	resp := doJSON(t, app, fiber.MethodDelete, "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/v1/games/"+g.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
