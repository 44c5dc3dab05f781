package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"pacereader/internal/cache"
	"pacereader/internal/pace"
	"pacereader/internal/pipeline"
	"pacereader/internal/score"
	"pacereader/internal/workspace"
)

// scorerFor maps a provider name onto a scoring function. "off" (and "")
// mean plain wpm pacing with no external calls.
func scorerFor(provider, model string) (score.Func, error) {
	switch provider {
	case "", "off":
		return nil, nil
	case "openai":
		s, err := score.NewOpenAIScorer("", model)
		if err != nil {
			return nil, err
		}
		return s.Score, nil
	case "llama":
		return score.NewLlamaScorer(model).Score, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want off, openai or llama)", provider)
	}
}

// openCache opens the workspace-resident result cache. A cache failure is
// not fatal; the reader just re-scores.
func openCache(base string) *cache.Store {
	store, err := cache.Open(workspace.CachePath(base))
	if err != nil {
		trace("cache unavailable: %v", err)
		return nil
	}
	return store
}

// computeWithCache consults the content-addressed cache before scoring and
// stores the surprisal vector after a scored run. A pure parameter change
// on unmodified text therefore never re-scores.
func computeWithCache(ctx context.Context, text string, scoreFn score.Func, p pace.Params, store *cache.Store, onProgress pipeline.ProgressFn) (*pipeline.Schedule, error) {
	if scoreFn != nil && store != nil {
		entry, err := store.Get(text)
		if err != nil {
			trace("cache read failed: %v", err)
		} else if entry != nil {
			trace("cache hit, skipping scoring")
			return pipeline.FromSurprisal(entry.Items, entry.Surprisal, p), nil
		}
	}

	sched, err := pipeline.ComputeSchedule(ctx, text, scoreFn, p, onProgress)
	if err != nil {
		return nil, err
	}

	if scoreFn != nil && store != nil && len(sched.Items) > 0 {
		if err := store.Put(text, sched.Items, sched.Surprisal); err != nil {
			trace("cache write failed: %v", err)
		}
	}
	return sched, nil
}

func trace(format string, args ...any) {
	if os.Getenv("PACEREADER_TRACE") == "1" {
		log.Printf(format, args...)
	}
}
