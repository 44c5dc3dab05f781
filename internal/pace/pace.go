package pace

import (
	"math"
	"sort"

	"pacereader/internal/item"
)

// BaseMs is the per-item floor duration implied by a target reading speed.
func BaseMs(wpm int) int {
	return int(math.Round(60000 / float64(wpm)))
}

// Excess converts raw per-item surprisal (bits) into the bounded excess
// signal: how far each item sits above a robust per-run baseline, in units
// of the robust scale, capped at eMax.
func Excess(surprisal []float64, p Params) []float64 {
	if len(surprisal) == 0 {
		return nil
	}
	m := median(surprisal)
	sigma := 1.4826 * mad(surprisal, m)
	if sigma < 1e-6 {
		sigma = 1e-6
	}

	out := make([]float64, len(surprisal))
	for i, s := range surprisal {
		e := (s - (m + p.Alpha*sigma)) / (p.Beta * sigma)
		if e < 0 {
			e = 0
		}
		if e > p.EMax {
			e = p.EMax
		}
		out[i] = e
	}
	return out
}

// Spread convolves the excess signal with the smoothing kernel, producing
// the neighbor slowdown field. Terms falling outside the sequence are
// omitted without renormalizing, so edge items receive a weaker field than
// interior items with the same excess.
func Spread(excess []float64, kernel []float64) []float64 {
	if len(excess) == 0 {
		return nil
	}
	r := len(kernel) / 2
	out := make([]float64, len(excess))
	for i := range excess {
		var u float64
		for d := -r; d <= r; d++ {
			j := i + d
			if j < 0 || j >= len(excess) {
				continue
			}
			u += excess[j] * kernel[d+r]
		}
		out[i] = u
	}
	return out
}

// Durations computes the per-item display schedule in milliseconds. With a
// nil or empty surprisal vector it degrades to pure wpm-based pacing plus
// punctuation bonuses; either way every duration lands in [MinMs, MaxMs].
func Durations(items []item.Item, surprisal []float64, p Params) []int {
	if len(items) == 0 {
		return nil
	}
	base := float64(BaseMs(p.TargetWPM))

	var field []float64
	if len(surprisal) == len(items) && len(surprisal) > 0 {
		field = Spread(Excess(surprisal, p), p.Kernel)
	}

	out := make([]int, len(items))
	for i, it := range items {
		mult := 1.0
		if field != nil {
			mult = 1 + p.Gamma*math.Tanh(field[i])
		}
		d := int(math.Round(base*mult)) + p.Bonus(it.EndsWith)
		out[i] = p.Clamp(d)
	}
	return out
}

// Bonus is the fixed millisecond pause appended for trailing punctuation.
func (p Params) Bonus(e item.Ending) int {
	switch e {
	case item.EndComma:
		return p.CommaBonusMs
	case item.EndPeriod:
		return p.PeriodBonusMs
	case item.EndPara:
		return p.ParagraphBonusMs
	default:
		return 0
	}
}

// Effective rescales a stored duration for live wpm/gamma adjustments. The
// whole duration scales with the wpm ratio; when gamma has moved away from
// its original value only the slowdown portion above the rescaled base is
// multiplied by the gamma ratio, so gamma -> 0 converges on pure wpm pacing.
func Effective(storedMs, originalWPM, currentWPM int, originalGamma, currentGamma float64, p Params) int {
	scale := float64(originalWPM) / float64(currentWPM)
	scaled := float64(storedMs) * scale

	if currentGamma != originalGamma {
		base := math.Round(60000/float64(originalWPM)) * scale
		slow := scaled - base
		if slow < 0 {
			slow = 0
		}
		if originalGamma > 0 {
			slow *= currentGamma / originalGamma
		} else {
			slow = 0
		}
		scaled = base + slow
	}
	return p.Clamp(int(math.Round(scaled)))
}

// Clamp forces a duration into [MinMs, MaxMs].
func (p Params) Clamp(ms int) int {
	if ms < p.MinMs {
		return p.MinMs
	}
	if ms > p.MaxMs {
		return p.MaxMs
	}
	return ms
}

// median of an even-length list is the mean of the two central values.
func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func mad(v []float64, m float64) float64 {
	if len(v) == 0 {
		return 0
	}
	dev := make([]float64, len(v))
	for i, x := range v {
		dev[i] = math.Abs(x - m)
	}
	return median(dev)
}
