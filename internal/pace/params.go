package pace

import "fmt"

const (
	MinWPM   = 50
	MaxWPM   = 1000
	MinGamma = 0.0
	MaxGamma = 2.0
)

// Params holds every knob of the pacing computation. A zero Params is not
// usable; start from Default and override.
type Params struct {
	TargetWPM int `json:"target_wpm"`

	// Gamma scales how strongly excess surprise slows the reader down.
	Gamma float64 `json:"gamma"`

	ChunkSizeWords int `json:"chunk_size_words"`
	ContextWords   int `json:"context_words"`

	// Normalization of raw surprisal into excess surprise.
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	EMax  float64 `json:"e_max"`

	// Kernel spreads excess surprise onto neighboring items. Must have odd
	// length with the peak weight at the center.
	Kernel []float64 `json:"kernel"`

	MinMs int `json:"min_ms"`
	MaxMs int `json:"max_ms"`

	CommaBonusMs     int `json:"comma_bonus_ms"`
	PeriodBonusMs    int `json:"period_bonus_ms"`
	ParagraphBonusMs int `json:"paragraph_bonus_ms"`
}

func Default() Params {
	return Params{
		TargetWPM:        300,
		Gamma:            0.6,
		ChunkSizeWords:   16,
		ContextWords:     12,
		Alpha:            0.6,
		Beta:             1.2,
		EMax:             3.0,
		Kernel:           []float64{0.12, 0.22, 0.32, 0.22, 0.12},
		MinMs:            60,
		MaxMs:            2000,
		CommaBonusMs:     40,
		PeriodBonusMs:    100,
		ParagraphBonusMs: 250,
	}
}

// Validate fails fast on out-of-range parameters, naming the valid range.
func (p Params) Validate() error {
	if p.TargetWPM < MinWPM || p.TargetWPM > MaxWPM {
		return fmt.Errorf("target wpm %d out of range [%d, %d]", p.TargetWPM, MinWPM, MaxWPM)
	}
	if p.Gamma < MinGamma || p.Gamma > MaxGamma {
		return fmt.Errorf("gamma %.2f out of range [%.1f, %.1f]", p.Gamma, MinGamma, MaxGamma)
	}
	if p.ChunkSizeWords < 1 {
		return fmt.Errorf("chunk size %d words, must be at least 1", p.ChunkSizeWords)
	}
	if p.ContextWords < 0 {
		return fmt.Errorf("context size %d words, must not be negative", p.ContextWords)
	}
	if p.Beta <= 0 {
		return fmt.Errorf("beta %.3f must be positive", p.Beta)
	}
	if p.EMax <= 0 {
		return fmt.Errorf("e_max %.3f must be positive", p.EMax)
	}
	if len(p.Kernel) == 0 || len(p.Kernel)%2 == 0 {
		return fmt.Errorf("kernel length %d, must be odd and non-empty", len(p.Kernel))
	}
	if p.MinMs < 0 || p.MaxMs < p.MinMs {
		return fmt.Errorf("duration bounds [%d, %d] ms invalid, need 0 <= min <= max", p.MinMs, p.MaxMs)
	}
	return nil
}

// ClampWPM forces a live-adjusted wpm back into the valid range.
func ClampWPM(wpm int) int {
	if wpm < MinWPM {
		return MinWPM
	}
	if wpm > MaxWPM {
		return MaxWPM
	}
	return wpm
}

// ClampGamma forces a live-adjusted gamma back into the valid range.
func ClampGamma(g float64) float64 {
	if g < MinGamma {
		return MinGamma
	}
	if g > MaxGamma {
		return MaxGamma
	}
	return g
}
