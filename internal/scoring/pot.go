// internal/scoring/pot.go
// Splits the entry-fee pool across the wagering categories: closest-to-pin,
// optional low-net and second-place carve-outs, with everything left over
// funding the skins pot.
package scoring

// DefaultCTPPercentage is the share of the pot reserved for the closest-to-pin
// wager when the organizer doesn't configure one.
const DefaultCTPPercentage = 0.25

// PotOptions configures the percentage carve-outs. Nil fields use defaults:
// 0.25 for CTP, 0 for everything else. The percentages are taken at face
// value: they are deliberately not validated to sum to 1 or less, matching
// how the group has always configured pots. An organizer who allocates 120%
// of the pot gets a negative skins pot and has only themselves to blame.
type PotOptions struct {
	CTPPercentage         *float64 `json:"ctpPercentage,omitempty"`
	LowNetPercentage      *float64 `json:"lowNetPercentage,omitempty"`
	SecondPlacePercentage *float64 `json:"secondPlacePercentage,omitempty"`
}

// PotBreakdown is the computed split of the total pot.
type PotBreakdown struct {
	Total       float64 `json:"total"`       // playerCount x entryFee
	Skins       float64 `json:"skins"`       // What's left after all carve-outs
	CTP         float64 `json:"ctp"`         // Closest-to-pin carve-out
	LowNet      float64 `json:"lowNet"`      // Low-net carve-out (0 unless configured)
	SecondPlace float64 `json:"secondPlace"` // Second-place carve-out (0 unless configured)
	CTPValue    float64 `json:"ctpValue"`    // Amount paid to the CTP winner (the whole CTP pot)
	SkinValue   float64 `json:"skinValue"`   // Dollar value of one skin; 0 when no skins were awarded
}

// CalculatePot distributes the entry-fee pool. totalSkins is the number of
// skins actually awarded in the round (Ledger.TotalSkins); it sets the dollar
// value of a single skin. When no skins were awarded the skin value is 0
// rather than a division by zero.
func CalculatePot(playerCount int, entryFee float64, opts PotOptions, totalSkins int) PotBreakdown {
	pct := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}

	total := float64(playerCount) * entryFee
	ctp := total * pct(opts.CTPPercentage, DefaultCTPPercentage)
	lowNet := total * pct(opts.LowNetPercentage, 0)
	second := total * pct(opts.SecondPlacePercentage, 0)
	skins := total - ctp - lowNet - second

	breakdown := PotBreakdown{
		Total:       total,
		Skins:       skins,
		CTP:         ctp,
		LowNet:      lowNet,
		SecondPlace: second,
		CTPValue:    ctp,
	}
	if totalSkins > 0 {
		breakdown.SkinValue = skins / float64(totalSkins)
	}
	return breakdown
}
