package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// LlamaScorer talks to a local llama-server (or any OpenAI-compatible
// completion endpoint) over plain HTTP. Endpoint and model come from the
// environment so a locally running server needs no configuration at all.
type LlamaScorer struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewLlamaScorer(model string) *LlamaScorer {
	return &LlamaScorer{
		endpoint: llamaEndpoint(),
		model:    model,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func llamaEndpoint() string {
	if v := os.Getenv("PACEREADER_LLAMA_URL"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080/v1/completions"
}

type llamaCompletionRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Echo        bool    `json:"echo"`
	Logprobs    int     `json:"logprobs"`
	Temperature float64 `json:"temperature"`
}

type llamaCompletionResponse struct {
	Choices []struct {
		Logprobs struct {
			Tokens        []string  `json:"tokens"`
			TokenLogprobs []float64 `json:"token_logprobs"`
			TextOffset    []int64   `json:"text_offset"`
		} `json:"logprobs"`
	} `json:"choices"`
}

func (s *LlamaScorer) Score(ctx context.Context, contextText, chunkText string) ([]ScoredToken, error) {
	if chunkText == "" {
		return nil, nil
	}
	prompt := contextText + chunkText

	payload, err := json.Marshal(llamaCompletionRequest{
		Model:    s.model,
		Prompt:   prompt,
		Echo:     true,
		Logprobs: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llama-server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read llama-server response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llama-server status %d: %s", resp.StatusCode, firstLine(body))
	}

	var out llamaCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode llama-server response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("llama-server returned no choices")
	}

	lp := out.Choices[0].Logprobs
	return rebase(lp.Tokens, lp.TokenLogprobs, lp.TextOffset, len(contextText)), nil
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	if len(b) > 200 {
		b = b[:200]
	}
	return string(b)
}
