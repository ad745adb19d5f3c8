package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"market-analyst/internal/narrative"
	"market-analyst/internal/store"
	"market-analyst/internal/trace"
	"market-analyst/internal/types"
)

const defaultModel = "claude-3-5-haiku-20241022"

// Narrator asks the Anthropic messages API for the report summary.
type Narrator struct {
	cfg      *store.Config
	endpoint string
}

func NewNarrator(cfg *store.Config) *Narrator {
	// Default public messages endpoint; proxies override via env.
	endpoint := "https://api.anthropic.com/v1/messages"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Narrator{cfg: cfg, endpoint: endpoint}
}

func (n *Narrator) Summarize(ctx context.Context, report *types.Report) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	model := n.cfg.Narrative.Model
	if model == "" {
		model = defaultModel
	}

	reqBody := map[string]any{
		"model":       model,
		"system":      "You are an equity research assistant. Be factual and brief.",
		"messages":    []map[string]string{{"role": "user", "content": narrative.Prompt(report)}},
		"max_tokens":  n.cfg.Narrative.MaxTokens,
		"temperature": n.cfg.Narrative.Temperature,
	}

	bb, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, "POST", n.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}
