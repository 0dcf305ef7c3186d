package combat

import (
	"math"

	"gladiators/internal/arena"
)

// Leveling converts kills into experience. Award is what a victor at the
// given level and xp is worth; Threshold is the xp needed to leave level.
type Leveling interface {
	Award(level int, xp float64) float64
	Threshold(level int) float64
}

// ExponentialLeveling awards xp + AwardBase^level and levels up at
// ThresholdBase^level.
type ExponentialLeveling struct {
	AwardBase     float64
	ThresholdBase float64
}

func DefaultLeveling() ExponentialLeveling {
	return ExponentialLeveling{AwardBase: 2, ThresholdBase: 3}
}

func (e ExponentialLeveling) Award(level int, xp float64) float64 {
	return xp + math.Pow(e.AwardBase, float64(level))
}

func (e ExponentialLeveling) Threshold(level int) float64 {
	return math.Pow(e.ThresholdBase, float64(level))
}

// GainXP adds award to l. When the total reaches threshold the level goes up
// by one and the threshold is subtracted; at most one level is gained per
// call. Negative awards are ignored.
func GainXP(l *arena.Level, award, threshold float64) bool {
	if award <= 0 || math.IsNaN(award) {
		return false
	}
	if l.XP+award >= threshold {
		l.XP += award - threshold
		l.Level++
		if l.XP < 0 {
			l.XP = 0
		}
		return true
	}
	l.XP += award
	return false
}
