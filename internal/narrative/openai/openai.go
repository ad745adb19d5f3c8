package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"market-analyst/internal/narrative"
	"market-analyst/internal/store"
	"market-analyst/internal/trace"
	"market-analyst/internal/types"
)

const defaultModel = "gpt-4o-mini"

// Narrator asks the OpenAI chat completions API for the report summary.
type Narrator struct {
	cfg *store.Config
}

func NewNarrator(cfg *store.Config) *Narrator {
	return &Narrator{cfg: cfg}
}

func (n *Narrator) Summarize(ctx context.Context, report *types.Report) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	model := n.cfg.Narrative.Model
	if model == "" {
		model = defaultModel
	}

	body := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are an equity research assistant. Be factual and brief."},
			{"role": "user", "content": narrative.Prompt(report)},
		},
		"temperature": n.cfg.Narrative.Temperature,
		"max_tokens":  n.cfg.Narrative.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}
