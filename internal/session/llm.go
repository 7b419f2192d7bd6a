package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const systemPrompt = `You are an autonomous poker agent playing no-limit Texas Hold'em in a sit-and-go tournament. You will receive the game state as JSON: your hole cards, the board, stacks, pot, the legal actions with their amount bounds, the table's trash talk so far and your own private notes from earlier hands.

Respond with a single JSON object and nothing else:
{"action": "<one of the legal actions>", "amount": <bet-to total, only for bet or raise>, "reasoning": "<your strategic reasoning>", "inner_thoughts": "<private thoughts, never shown to opponents>", "trash_talk": "<optional table talk, shown to everyone>"}

Amounts are the total you are betting to for the street, not the increment. An illegal or missing action is replaced with a check or fold, so answer carefully.`

const reflectPrompt = `The hand is over. Review what happened and write one short private note to your future self about opponent tendencies or adjustments worth remembering. Respond with the note text only, no JSON. Respond with an empty message if nothing is worth noting.`

// LLMConfig configures one LLM-backed agent
type LLMConfig struct {
	BaseURL     string // chat-completions endpoint base, e.g. https://api.openai.com/v1
	APIKey      string
	Model       string
	Personality string // prepended to the system prompt to give the seat a voice
	MaxTokens   int
	Temperature float64
}

// LLMAgent plays a seat by calling a chat-completions API. One agent is one
// model+personality pair; the session layer owns deadlines, so the HTTP
// client here carries no timeout of its own beyond the request context.
type LLMAgent struct {
	cfg    LLMConfig
	client *http.Client
	logger *log.Logger
}

// NewLLMAgent creates an agent talking to a chat-completions endpoint
func NewLLMAgent(cfg LLMConfig, client *http.Client, logger *log.Logger) *LLMAgent {
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &LLMAgent{
		cfg:    cfg,
		client: client,
		logger: logger.WithPrefix("llm").With("model", cfg.Model),
	}
}

// Decide sends the view to the model and parses its JSON decision
func (a *LLMAgent) Decide(ctx context.Context, view View) (Decision, error) {
	viewJSON, err := json.Marshal(view)
	if err != nil {
		return Decision{}, fmt.Errorf("marshal view: %w", err)
	}

	user := fmt.Sprintf("It is your turn at seat %d. Game state:\n%s", view.Seat, viewJSON)
	content, err := a.complete(ctx, a.systemPrompt(), user, true)
	if err != nil {
		return Decision{}, err
	}

	var d Decision
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		// Some models wrap the object in prose or fences despite instructions
		cleaned := extractJSONObject(content)
		if cleaned == "" {
			return Decision{}, fmt.Errorf("no JSON object in response: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned), &d); err != nil {
			return Decision{}, fmt.Errorf("decode decision: %w", err)
		}
	}
	return d, nil
}

// Reflect asks the model for a post-hand note
func (a *LLMAgent) Reflect(ctx context.Context, r Reflection) (string, error) {
	rJSON, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal reflection: %w", err)
	}
	user := fmt.Sprintf("%s\n\nHand record:\n%s", reflectPrompt, rJSON)
	content, err := a.complete(ctx, a.systemPrompt(), user, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (a *LLMAgent) systemPrompt() string {
	if a.cfg.Personality == "" {
		return systemPrompt
	}
	return a.cfg.Personality + "\n\n" + systemPrompt
}

func (a *LLMAgent) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	payload := map[string]any{
		"model": a.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	if jsonMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}
	if a.cfg.MaxTokens > 0 {
		payload["max_tokens"] = a.cfg.MaxTokens
	}
	if a.cfg.Temperature > 0 {
		payload["temperature"] = a.cfg.Temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion http %d: %s", resp.StatusCode, truncate(string(respBody), 400))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return cc.Choices[0].Message.Content, nil
}

// extractJSONObject pulls the outermost {...} from text that wraps JSON in
// prose or code fences.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
