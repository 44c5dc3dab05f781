// Package pipeline turns raw text and a token-scoring capability into a
// per-item display-duration schedule.
package pipeline

import (
	"context"
	"log"
	"os"

	"pacereader/internal/chunkplan"
	"pacereader/internal/item"
	"pacereader/internal/pace"
	"pacereader/internal/score"
)

// ProgressFn is called after each scored chunk with (chunkIndex, totalChunks);
// the final call carries chunkIndex == totalChunks.
type ProgressFn func(chunkIndex, totalChunks int)

// Schedule is a completed run. Surprisal is nil when scoring was disabled,
// in which case Durations reflect pure wpm pacing plus punctuation bonuses.
type Schedule struct {
	Items     []item.Item
	Durations []int
	Surprisal []float64
}

// ComputeSchedule itemizes text, scores it chunk by chunk through scoreFn,
// and derives the duration schedule. A nil scoreFn skips scoring entirely.
// A failed chunk is logged and skipped: its items keep zero surprisal and
// fall back to base pacing while the run still completes. Chunks are scored
// strictly sequentially, in item order.
func ComputeSchedule(ctx context.Context, text string, scoreFn score.Func, p pace.Params, onProgress ProgressFn) (*Schedule, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	items := item.Itemize(text)
	if len(items) == 0 {
		return &Schedule{}, nil
	}

	if scoreFn == nil {
		return &Schedule{Items: items, Durations: pace.Durations(items, nil, p)}, nil
	}

	surprisal := make([]float64, len(items))
	chunks := chunkplan.Plan(len(items), p.ChunkSizeWords, p.ContextWords)
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunkStart := items[c.StartItem].Start
		chunkText := text[chunkStart:items[c.EndItem-1].End]
		contextText := text[items[c.ContextStartItem].Start:chunkStart]

		tokens, err := scoreFn(ctx, contextText, chunkText)
		if err != nil {
			trace("chunk %d/%d scoring failed, keeping base pacing: %v", i+1, len(chunks), err)
		} else {
			score.Accumulate(items, chunkStart, tokens, surprisal)
		}

		if onProgress != nil {
			onProgress(i+1, len(chunks))
		}
	}

	return &Schedule{
		Items:     items,
		Durations: pace.Durations(items, surprisal, p),
		Surprisal: surprisal,
	}, nil
}

// FromSurprisal rebuilds a schedule from cached items and surprisal, e.g.
// after a cache hit or a live parameter change. Pure; no scoring calls.
func FromSurprisal(items []item.Item, surprisal []float64, p pace.Params) *Schedule {
	return &Schedule{
		Items:     items,
		Durations: pace.Durations(items, surprisal, p),
		Surprisal: surprisal,
	}
}

func trace(format string, args ...any) {
	if os.Getenv("PACEREADER_TRACE") == "1" {
		log.Printf(format, args...)
	}
}
