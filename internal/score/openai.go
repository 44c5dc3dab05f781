package score

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIScorer obtains token log-probabilities from the OpenAI completions
// API by echoing the prompt with logprobs enabled and zero generated tokens.
// Only completion-capable models expose prompt logprobs.
type OpenAIScorer struct {
	client openai.Client
	model  string
}

// NewOpenAIScorer reads the API key from config or OPENAI_API_KEY.
func NewOpenAIScorer(apiKey, model string) (*OpenAIScorer, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY)", ErrInvalidConfig)
	}
	if model == "" {
		model = string(openai.CompletionNewParamsModelGPT3_5TurboInstruct)
	}
	return &OpenAIScorer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Score sends context+chunk as one prompt and keeps only the tokens that
// fall inside the chunk, re-based to chunk-relative offsets.
func (s *OpenAIScorer) Score(ctx context.Context, contextText, chunkText string) ([]ScoredToken, error) {
	if chunkText == "" {
		return nil, nil
	}
	prompt := contextText + chunkText

	completion, err := s.client.Completions.New(ctx, openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(s.model),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(prompt),
		},
		MaxTokens:   openai.Int(0),
		Echo:        openai.Bool(true),
		Logprobs:    openai.Int(0),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: empty response")
	}

	lp := completion.Choices[0].Logprobs
	return rebase(lp.Tokens, lp.TokenLogprobs, lp.TextOffset, len(contextText)), nil
}

// rebase converts prompt-relative token offsets into chunk-relative ones,
// dropping context tokens and clipping a token that straddles the boundary.
func rebase(tokens []string, logprobs []float64, offsets []int64, contextLen int) []ScoredToken {
	n := len(tokens)
	if len(logprobs) < n {
		n = len(logprobs)
	}
	if len(offsets) < n {
		n = len(offsets)
	}

	out := make([]ScoredToken, 0, n)
	for i := 0; i < n; i++ {
		start := int(offsets[i]) - contextLen
		end := start + len(tokens[i])
		if end <= 0 {
			continue
		}
		if start < 0 {
			start = 0
		}
		out = append(out, ScoredToken{
			Token:          tokens[i],
			LogProbability: logprobs[i],
			Start:          start,
			End:            end,
		})
	}
	return out
}
