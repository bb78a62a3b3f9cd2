// internal/scoring/skins.go
// The skins engine: turns raw gross scores into hole-by-hole results and an
// aggregate payout ledger.
//
// Skins rules as played by this group: each hole is worth one skin. The player
// with the strictly lowest net score on a hole wins that hole's skin plus any
// skins carried over from earlier tied holes. A tie for low net carries the
// hole's skin forward. A hole that is missing a score from any player is
// "incomplete" — it awards nothing and does not add to the carryover, so a
// half-entered scorecard doesn't inflate a later winner's haul.
package scoring

import "sort"

// Player identifies a participant in the round for scoring purposes.
type Player struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CourseHandicap float64 `json:"courseHandicap"`
}

// Hole is the static definition of one hole on the course.
type Hole struct {
	Number      int `json:"number"`      // 1..18
	Par         int `json:"par"`         // Expected strokes (3, 4 or 5)
	StrokeIndex int `json:"strokeIndex"` // Difficulty rank, 1 = hardest; drives stroke allocation
}

// HoleStatus describes how a hole resolved.
type HoleStatus string

const (
	HoleWon        HoleStatus = "won"        // A single player had the lowest net score
	HoleCarryover  HoleStatus = "carryover"  // Tie for low net; skin rolls to the next hole
	HoleIncomplete HoleStatus = "incomplete" // At least one player has no score yet
)

// HoleResult is the outcome of a single hole.
type HoleResult struct {
	Hole        int                `json:"hole"`
	Par         int                `json:"par"`
	StrokeIndex int                `json:"strokeIndex"`
	NetScores   map[string]float64 `json:"netScores,omitempty"` // player id -> net score; empty for incomplete holes
	WinnerID    string             `json:"winnerId,omitempty"`  // empty when no outright winner
	WinnerName  string             `json:"winnerName,omitempty"`
	Status      HoleStatus         `json:"status"`
	SkinValue   int                `json:"skinValue"`           // Skins awarded on this hole (1 + carryover); 0 unless won
}

// PlayerResult aggregates a player's round: total skins won and, once a pot
// has been applied, the dollar winnings.
type PlayerResult struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	SkinsWon int     `json:"skinsWon"`
	Winnings float64 `json:"winnings"`
}

// Ledger is the full calculated result of a round, attached to the game as
// scores.calculated and locked at finalization.
type Ledger struct {
	HoleResults   []HoleResult   `json:"holeResults"`
	PlayerResults []PlayerResult `json:"playerResults"` // Sorted by skins won, descending
	Carryover     int            `json:"carryover"`     // Skins left unclaimed at the end of the round
	TotalSkins    int            `json:"totalSkins"`    // Sum of all skins actually awarded
}

// CalculateGameSkins runs the skins competition over a round.
//
// players lists everyone being scored; holes defines the course (any order —
// they are processed in ascending hole number); gross maps player id -> hole
// number -> gross score.
//
// Carryover that is still unclaimed after the last hole is forfeited — it is
// reported in Ledger.Carryover but paid to nobody. That is the house rule this
// group plays (the last hole has to be won outright), not an accident.
func CalculateGameSkins(players []Player, holes []Hole, gross map[string]map[int]int) *Ledger {
	ordered := make([]Hole, len(holes))
	copy(ordered, holes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	ledger := &Ledger{
		HoleResults: make([]HoleResult, 0, len(ordered)),
	}
	skinsByPlayer := make(map[string]int, len(players))
	carryover := 0

	for _, hole := range ordered {
		result := HoleResult{
			Hole:        hole.Number,
			Par:         hole.Par,
			StrokeIndex: hole.StrokeIndex,
		}

		// Every player must have a score on the hole for it to count. A hole
		// with a missing score is frozen: no winner, and the carryover stays
		// exactly where it is until a complete hole resolves it.
		complete := true
		for _, p := range players {
			if _, ok := gross[p.ID][hole.Number]; !ok {
				complete = false
				break
			}
		}
		if !complete {
			result.Status = HoleIncomplete
			ledger.HoleResults = append(ledger.HoleResults, result)
			continue
		}

		// Net score = gross minus the handicap stroke allocation for this
		// hole's difficulty rank. Fractional nets are expected.
		nets := make(map[string]float64, len(players))
		var (
			best       float64
			bestPlayer Player
			bestCount  int
		)
		for i, p := range players {
			net := float64(gross[p.ID][hole.Number]) - StrokesForHole(p.CourseHandicap, hole.StrokeIndex)
			nets[p.ID] = net
			switch {
			case i == 0 || net < best:
				best = net
				bestPlayer = p
				bestCount = 1
			case net == best:
				bestCount++
			}
		}
		result.NetScores = nets

		if bestCount == 1 {
			// Outright winner: the hole's skin plus everything carried in.
			value := 1 + carryover
			carryover = 0
			result.Status = HoleWon
			result.WinnerID = bestPlayer.ID
			result.WinnerName = bestPlayer.Name
			result.SkinValue = value
			skinsByPlayer[bestPlayer.ID] += value
			ledger.TotalSkins += value
		} else {
			// Tie for low net: nobody wins, the skin rolls forward.
			carryover++
			result.Status = HoleCarryover
		}

		ledger.HoleResults = append(ledger.HoleResults, result)
	}

	ledger.Carryover = carryover

	// Aggregate per-player results, sorted by skins won descending. The sort
	// is stable so players with equal skins keep their input order.
	ledger.PlayerResults = make([]PlayerResult, len(players))
	for i, p := range players {
		ledger.PlayerResults[i] = PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			SkinsWon: skinsByPlayer[p.ID],
		}
	}
	sort.SliceStable(ledger.PlayerResults, func(i, j int) bool {
		return ledger.PlayerResults[i].SkinsWon > ledger.PlayerResults[j].SkinsWon
	})

	return ledger
}

// ApplyPayouts fills in each player's dollar winnings from the per-skin value
// computed by the pot calculator: winnings = skins won x skin value.
func (l *Ledger) ApplyPayouts(skinValue float64) {
	for i := range l.PlayerResults {
		l.PlayerResults[i].Winnings = float64(l.PlayerResults[i].SkinsWon) * skinValue
	}
}

// Clone returns a deep copy of the ledger (nil in, nil out).
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	out := &Ledger{
		Carryover:  l.Carryover,
		TotalSkins: l.TotalSkins,
	}
	out.HoleResults = make([]HoleResult, len(l.HoleResults))
	for i, hr := range l.HoleResults {
		out.HoleResults[i] = hr
		if hr.NetScores != nil {
			nets := make(map[string]float64, len(hr.NetScores))
			for k, v := range hr.NetScores {
				nets[k] = v
			}
			out.HoleResults[i].NetScores = nets
		}
	}
	out.PlayerResults = append([]PlayerResult(nil), l.PlayerResults...)
	return out
}
