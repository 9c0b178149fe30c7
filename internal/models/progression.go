package models

import "fmt"

// LicenseTier is an XP threshold in the RaceMates progression ladder.
type LicenseTier struct {
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
}

// Tiers in ascending XP order.
var licenseTiers = []LicenseTier{
	{Name: "Rookie", MinXP: 0},
	{Name: "Bronze", MinXP: 500},
	{Name: "Silver", MinXP: 1500},
	{Name: "Gold", MinXP: 4000},
	{Name: "Platinum", MinXP: 10000},
}

// Progression describes a user's position on the tier ladder.
type Progression struct {
	XP       int          `json:"xp"`
	Tier     LicenseTier  `json:"tier"`
	NextTier *LicenseTier `json:"next_tier,omitempty"`
	// Percent toward the next tier threshold, 0-100. 100 at the top tier.
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// ProgressionFor computes the tier and percentage-of-threshold progress for
// the given XP total.
func ProgressionFor(xp int) Progression {
	if xp < 0 {
		xp = 0
	}

	current := licenseTiers[0]
	var next *LicenseTier
	for i := range licenseTiers {
		if xp >= licenseTiers[i].MinXP {
			current = licenseTiers[i]
			if i+1 < len(licenseTiers) {
				n := licenseTiers[i+1]
				next = &n
			} else {
				next = nil
			}
		}
	}

	p := Progression{XP: xp, Tier: current, NextTier: next}
	if next == nil {
		p.Percent = 100
		p.Label = fmt.Sprintf("%s (max tier)", current.Name)
		return p
	}

	span := next.MinXP - current.MinXP
	p.Percent = float64(xp-current.MinXP) / float64(span) * 100
	p.Label = fmt.Sprintf("%s, %d XP to %s", current.Name, next.MinXP-xp, next.Name)
	return p
}
