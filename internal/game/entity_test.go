package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bvictor-coder/skins-game/internal/scoring"
)

// fixedClock returns a clock that ticks one minute per call, starting at a
// known instant, so transition timestamps in tests are deterministic and
// strictly increasing.
func fixedClock() func() time.Time {
	t := time.Date(2026, 4, 18, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newTestEntity(t *testing.T) *Entity {
	t.Helper()
	e, err := New(Game{
		ID:       "g-1",
		Date:     "2026-04-18",
		Course:   "course-1",
		Holes:    18,
		EntryFee: 20,
	})
	require.NoError(t, err)
	return e.WithClock(fixedClock())
}

// advance walks the entity forward along the main lifecycle line until it
// reaches the target status.
func advance(t *testing.T, e *Entity, target Status) {
	t.Helper()
	for _, s := range AllStatuses()[1:] {
		if e.Status() == target {
			return
		}
		require.NoError(t, e.TransitionTo(s))
	}
	require.Equal(t, target, e.Status())
}

func TestNewStartsLifecycle(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	g := e.Snapshot()

	assert.Equal(t, StatusCreated, g.Status)
	require.NotNil(t, g.CreatedAt)
	require.Len(t, g.StatusHistory, 1)
	assert.Equal(t, StatusCreated, g.StatusHistory[0].Status)
	assert.Equal(t, Status(""), g.StatusHistory[0].PreviousStatus)
}

func TestNewRejectsPreExistingStatus(t *testing.T) {
	t.Parallel()
	_, err := New(Game{ID: "g-1", Status: StatusOpen})
	var tErr *InvalidTransitionError
	require.ErrorAs(t, err, &tErr)
}

func TestTransitionStampsAndRecordsHistory(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	require.NoError(t, e.TransitionTo(StatusOpen))
	require.NoError(t, e.TransitionTo(StatusEnrollmentComplete))

	g := e.Snapshot()
	assert.Equal(t, StatusEnrollmentComplete, g.Status)
	require.NotNil(t, g.OpenedAt)
	require.NotNil(t, g.EnrollmentCompletedAt)
	assert.True(t, g.EnrollmentCompletedAt.After(*g.OpenedAt))

	require.Len(t, g.StatusHistory, 3)
	assert.Equal(t, StatusOpen, g.StatusHistory[1].Status)
	assert.Equal(t, StatusCreated, g.StatusHistory[1].PreviousStatus)
	assert.Equal(t, StatusEnrollmentComplete, g.StatusHistory[2].Status)
	assert.Equal(t, StatusOpen, g.StatusHistory[2].PreviousStatus)

	// The last history entry always matches the current status.
	assert.Equal(t, g.Status, g.StatusHistory[len(g.StatusHistory)-1].Status)
}

func TestIllegalTransitionLeavesGameUntouched(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	before := e.Snapshot()

	var tErr *InvalidTransitionError
	require.ErrorAs(t, e.TransitionTo(StatusFinalized), &tErr)
	assert.False(t, e.CanTransitionTo(StatusFinalized))

	after := e.Snapshot()
	assert.Equal(t, before, after)
}

func TestBackwardTransitionKeepsTimestamps(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	require.NoError(t, e.TransitionTo(StatusOpen))
	require.NoError(t, e.TransitionTo(StatusEnrollmentComplete))
	require.NoError(t, e.TransitionTo(StatusOpen))

	g := e.Snapshot()
	assert.Equal(t, StatusOpen, g.Status)
	// Having once reached enrollment_complete is permanent history; the
	// timestamp survives the reversal.
	assert.NotNil(t, g.EnrollmentCompletedAt)
	require.Len(t, g.StatusHistory, 4)
	assert.Equal(t, StatusEnrollmentComplete, g.StatusHistory[3].PreviousStatus)
}

func TestFinalizePreconditions(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)

	var fErr *FinalizationError
	require.ErrorAs(t, e.Finalize(), &fErr) // not completed yet

	advance(t, e, StatusCompleted)
	require.ErrorAs(t, e.Finalize(), &fErr) // no calculated results

	e.SetCalculatedScores(&scoring.Ledger{TotalSkins: 3})
	require.NoError(t, e.Finalize())

	g := e.Snapshot()
	assert.Equal(t, StatusFinalized, g.Status)
	assert.NotNil(t, g.FinalizedAt)
	assert.True(t, g.Scores.Locked)
}

func TestFinalizeAlwaysLocks(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	advance(t, e, StatusCompleted)
	e.SetCalculatedScores(&scoring.Ledger{})
	require.NoError(t, e.Finalize())
	assert.False(t, e.CanModifyScores())

	// Unwind and finalize again: the lock is set unconditionally each time.
	require.NoError(t, e.TransitionTo(StatusCompleted))
	e.UnlockScores()
	require.NoError(t, e.TransitionTo(StatusFinalized))
	assert.True(t, e.Snapshot().Scores.Locked)
	assert.False(t, e.CanModifyScores())
}

func TestCanModifyScores(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	assert.False(t, e.CanModifyScores()) // created

	advance(t, e, StatusInProgress)
	assert.True(t, e.CanModifyScores())

	require.NoError(t, e.TransitionTo(StatusCompleted))
	assert.True(t, e.CanModifyScores())

	e.SetCalculatedScores(&scoring.Ledger{})
	require.NoError(t, e.Finalize())
	assert.False(t, e.CanModifyScores())

	// After un-finalizing, the game is completed again and editable even
	// though the lock flag is still set — the flag only bites at finalized.
	require.NoError(t, e.TransitionTo(StatusCompleted))
	assert.True(t, e.Snapshot().Scores.Locked)
	assert.True(t, e.CanModifyScores())
}

func TestUpdateMergesFields(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)

	notes := "bring cash"
	fee := 25.0
	ctp := 12
	require.NoError(t, e.Update(Patch{Notes: &notes, EntryFee: &fee, CTPHole: &ctp}))

	g := e.Snapshot()
	assert.Equal(t, "bring cash", g.Notes)
	assert.Equal(t, 25.0, g.EntryFee)
	require.NotNil(t, g.CTPHole)
	assert.Equal(t, 12, *g.CTPHole)
}

func TestUpdateStatusGoesThroughTransition(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)

	open := StatusOpen
	require.NoError(t, e.Update(Patch{Status: &open}))

	g := e.Snapshot()
	assert.Equal(t, StatusOpen, g.Status)
	// A status change via Update still stamps the timestamp and history —
	// it is never a plain field write.
	assert.NotNil(t, g.OpenedAt)
	assert.Len(t, g.StatusHistory, 2)

	finalized := StatusFinalized
	var tErr *InvalidTransitionError
	require.ErrorAs(t, e.Update(Patch{Status: &finalized}), &tErr)
}

func TestUpdateFinalizingPatchKeepsScoresLocked(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	advance(t, e, StatusCompleted)
	require.NoError(t, e.UpdateScores([]RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 4}, CourseHandicap: 9},
	}))
	e.SetCalculatedScores(&scoring.Ledger{TotalSkins: 1})

	// A single patch may carry both a score edit and the move to finalized.
	// The edit lands first (the game is still completed and editable) and the
	// transition locks afterwards — the merge must never undo the lock.
	finalized := StatusFinalized
	require.NoError(t, e.Update(Patch{
		Status: &finalized,
		Scores: &Scores{Raw: []RawScore{
			{PlayerID: "p1", Holes: map[int]int{1: 9}, CourseHandicap: 9},
		}},
	}))

	g := e.Snapshot()
	assert.Equal(t, StatusFinalized, g.Status)
	assert.True(t, g.Scores.Locked)
	assert.False(t, e.CanModifyScores())
	assert.Equal(t, 9, g.Scores.Raw[0].Holes[1])
}

func TestUpdateRejectedTransitionLeavesFieldsUntouched(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	before := e.Snapshot()

	// The illegal status is checked up front, so the notes merge in the same
	// patch never happens.
	finalized := StatusFinalized
	notes := "should not stick"
	var tErr *InvalidTransitionError
	require.ErrorAs(t, e.Update(Patch{Status: &finalized, Notes: &notes}), &tErr)
	assert.Equal(t, before, e.Snapshot())
}

func TestUpdateScoresPreservesCalculated(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	advance(t, e, StatusInProgress)

	require.NoError(t, e.UpdateScores([]RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 4}, CourseHandicap: 9},
	}))
	e.SetCalculatedScores(&scoring.Ledger{TotalSkins: 1})

	// Replacing raw scores must not drop the computed ledger.
	require.NoError(t, e.UpdateScores([]RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 5}, CourseHandicap: 9},
	}))
	g := e.Snapshot()
	require.NotNil(t, g.Scores.Calculated)
	assert.Equal(t, 1, g.Scores.Calculated.TotalSkins)
	assert.Equal(t, 5, g.Scores.Raw[0].Holes[1])

	// Same preservation rule for a scores patch that omits calculated.
	require.NoError(t, e.Update(Patch{Scores: &Scores{
		Raw: []RawScore{{PlayerID: "p1", Holes: map[int]int{1: 6}, CourseHandicap: 9}},
	}}))
	g = e.Snapshot()
	require.NotNil(t, g.Scores.Calculated)
	assert.Equal(t, 6, g.Scores.Raw[0].Holes[1])
}

func TestUpdateScoresValidates(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	var vErr *ValidationError
	require.ErrorAs(t, e.UpdateScores([]RawScore{{PlayerID: "", Holes: map[int]int{1: 4}}}), &vErr)
	assert.Empty(t, e.Snapshot().Scores.Raw)
}

func TestSnapshotIsIsolated(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	advance(t, e, StatusInProgress)
	require.NoError(t, e.UpdateScores([]RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 4}, CourseHandicap: 9},
	}))

	snap := e.Snapshot()
	snap.Scores.Raw[0].Holes[1] = 99
	snap.StatusHistory[0].Status = StatusFinalized
	*snap.StartedAt = snap.StartedAt.Add(time.Hour)

	g := e.Snapshot()
	assert.Equal(t, 4, g.Scores.Raw[0].Holes[1])
	assert.Equal(t, StatusCreated, g.StatusHistory[0].Status)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	t.Parallel()
	e := newTestEntity(t)
	advance(t, e, StatusCompleted)
	require.NoError(t, e.UpdateScores([]RawScore{
		{PlayerID: "p1", Holes: map[int]int{1: 4, 2: 5}, CourseHandicap: 9.4},
		{PlayerID: "p2", Holes: map[int]int{1: 4}, CourseHandicap: 18},
	}))
	e.SetCalculatedScores(&scoring.Ledger{TotalSkins: 2, Carryover: 1})
	require.NoError(t, e.Finalize())

	original := e.Snapshot()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Serialization is idempotent: a decoded snapshot re-encodes to the same
	// bytes, and the structural content survives the round trip.
	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Status, decoded.Status)
	assert.Equal(t, len(original.StatusHistory), len(decoded.StatusHistory))
	assert.Equal(t, original.Scores.Raw, decoded.Scores.Raw)
	assert.True(t, decoded.Scores.Locked)
}
