package score

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// Mock is a deterministic scorer for tests. It tokenizes the chunk into
// whitespace-delimited words and derives a stable log-probability for each
// from a hash of the word, so identical inputs always score identically.
type Mock struct {
	// Err, if set, is returned by Score instead of tokens.
	Err error

	// PerToken, if non-zero, overrides the hashed log-probability.
	PerToken float64

	// Calls records every (contextText, chunkText) pair seen.
	Calls [][2]string
}

func (m *Mock) Score(ctx context.Context, contextText, chunkText string) ([]ScoredToken, error) {
	m.Calls = append(m.Calls, [2]string{contextText, chunkText})
	if m.Err != nil {
		return nil, m.Err
	}

	var tokens []ScoredToken
	start := -1
	for i, r := range chunkText {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, m.token(chunkText[start:i], start, i))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, m.token(chunkText[start:], start, len(chunkText)))
	}
	return tokens, nil
}

func (m *Mock) token(word string, start, end int) ScoredToken {
	lp := m.PerToken
	if lp == 0 {
		h := fnv.New32a()
		h.Write([]byte(strings.ToLower(word)))
		// Map the hash onto log-probabilities in (-12, 0).
		lp = -float64(h.Sum32()%1200) / 100
	}
	return ScoredToken{Token: word, LogProbability: lp, Start: start, End: end}
}
