// Package score defines the token-scoring capability consumed by the pacing
// pipeline and its concrete providers. A scorer receives a chunk of text plus
// read-only leading context and returns per-token log-probabilities with
// character offsets relative to the chunk itself.
package score

import (
	"context"
	"errors"
	"math"
	"sort"

	"pacereader/internal/item"
)

var ErrInvalidConfig = errors.New("invalid scorer configuration")

// ScoredToken is one sub-word token as returned by a provider. Offsets are
// relative to the scored chunk's own text, not the full document.
type ScoredToken struct {
	Token          string
	LogProbability float64
	Start          int
	End            int
}

// Func scores chunkText given contextText. Implementations may fail per
// call; the pipeline treats a failure as "no data for this chunk".
type Func func(ctx context.Context, contextText, chunkText string) ([]ScoredToken, error)

// Accumulate aligns tokens onto items and adds each token's bit cost
// (-logP / ln 2) to the surprisal of the first item whose span overlaps the
// token's absolute span. chunkStart is the byte offset of the chunk within
// the document. Tokens overlapping no item are dropped.
func Accumulate(items []item.Item, chunkStart int, tokens []ScoredToken, surprisal []float64) {
	for _, tok := range tokens {
		start := chunkStart + tok.Start
		end := chunkStart + tok.End
		if end <= start {
			continue
		}
		// Items are sorted by span; find the first one ending past the
		// token start and check it actually overlaps.
		i := sort.Search(len(items), func(i int) bool { return items[i].End > start })
		if i < len(items) && items[i].Start < end {
			surprisal[i] += bits(tok.LogProbability)
		}
	}
}

func bits(logProb float64) float64 {
	b := -logProb / math.Ln2
	if b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0
	}
	return b
}
