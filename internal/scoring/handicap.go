// Package scoring implements the skins wagering math: per-hole handicap stroke
// allocation, hole-by-hole skin resolution with carryover, and the entry-fee
// pot split. Everything is a pure computation over plain inputs — the package
// has no knowledge of storage, HTTP, or the game lifecycle.
package scoring

// StrokesForHole returns the fractional handicap stroke a player receives on a
// single hole under the half-stroke system, given their course handicap and the
// hole's stroke index (1 = hardest hole on the course).
//
// The half-stroke system spreads a player's handicap across the course in 0.5
// increments, hardest holes first:
//
//   - Handicap 0 (or negative): no strokes anywhere.
//   - Handicap 1..18: a half stroke on each of the N hardest holes, where N is
//     the handicap. A 9-handicap gets 0.5 on stroke indexes 1-9 and nothing on
//     10-18.
//   - Handicap above 18: a half stroke on every hole, plus a second half stroke
//     (a full 1.0 total) on the (handicap - 18) hardest holes. A 27-handicap
//     gets 1.0 on indexes 1-9 and 0.5 on 10-18.
//
// The result is subtracted from the gross score to produce the net score, so
// fractional nets like 3.5 are normal and are compared directly when deciding
// skins.
func StrokesForHole(courseHandicap float64, strokeIndex int) float64 {
	if courseHandicap <= 0 {
		return 0
	}
	if courseHandicap <= 18 {
		if float64(strokeIndex) <= courseHandicap {
			return 0.5
		}
		return 0
	}
	// Above 18: every hole gets the base half stroke, and the hardest
	// (handicap - 18) holes get a second one.
	if float64(strokeIndex) <= courseHandicap-18 {
		return 1.0
	}
	return 0.5
}
