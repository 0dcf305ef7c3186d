package arena

import "math/rand"

// DirectionWeights holds one sampling weight per Direction.
type DirectionWeights [numDirections]float64

// WanderPolicy supplies the categorical distribution a wandering agent samples
// its next facing from.
type WanderPolicy interface {
	Weights(prev Direction) DirectionWeights
}

// BiasedWander favours keeping the previous facing: it gets Bias, every other
// direction gets Baseline.
type BiasedWander struct {
	Bias     float64
	Baseline float64
}

func DefaultWander() BiasedWander {
	return BiasedWander{Bias: 100, Baseline: 1}
}

func (w BiasedWander) Weights(prev Direction) DirectionWeights {
	var out DirectionWeights
	for i := range out {
		out[i] = w.Baseline
	}
	if prev >= 0 && prev < numDirections {
		out[prev] = w.Bias
	}
	return out
}

// Sample draws a direction proportionally to weights. Negative weights count
// as zero; if nothing has weight, fallback is returned.
func Sample(rng *rand.Rand, weights DirectionWeights, fallback Direction) Direction {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return fallback
	}
	r := rng.Float64() * total
	last := fallback
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = Direction(i)
		if r < w {
			return last
		}
		r -= w
	}
	return last
}
