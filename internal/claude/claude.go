package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joshharrison/boqloom/internal/rules"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// ItemSummary is the minimal BOQ item info sent to Claude.
type ItemSummary struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
}

// PhaseSummary describes one schedulable phase.
type PhaseSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords,omitempty"`
}

// Suggestion is a single proposed classification.
type Suggestion struct {
	ItemID  string `json:"item_id"`
	Phase   string `json:"phase"`
	Keyword string `json:"keyword"` // substring of the description worth adding to the rules
	Reason  string `json:"reason"`
}

// SuggestResult holds the full response from Claude.
type SuggestResult struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Client wraps the Anthropic SDK for Claude API calls.
type Client struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewClient creates a Claude client. apiKey defaults to ANTHROPIC_API_KEY env.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	inner := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	if model == "" {
		model = DefaultModel
	}
	return &Client{inner: inner, model: anthropic.Model(model)}, nil
}

const suggestPrompt = `You are a quantity surveyor planning a building project in the Gulf region. Bill of quantities descriptions may be in Arabic or English.

Assign each item below to exactly one construction phase from the provided list.

Rules:
- Only use phase ids from the provided list.
- Every item id must appear exactly once.
- "keyword" must be a short lowercase substring of the item description that identifies the phase, or "" if none does.

Return your answer as JSON with this exact structure:
{
  "suggestions": [
    {"item_id": "<item id>", "phase": "<phase id>", "keyword": "<substring>", "reason": "<short explanation>"}
  ]
}

Return ONLY the JSON object. No markdown fences, no commentary outside the JSON.
`

// buildPrompt constructs the full prompt for phase suggestions.
func buildPrompt(phases []PhaseSummary, items []ItemSummary) (string, error) {
	p, err := json.MarshalIndent(phases, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal phases: %w", err)
	}
	it, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return suggestPrompt + "\nPhases:\n" + string(p) + "\n\nItems:\n" + string(it), nil
}

// SuggestPhases asks Claude to classify items the keyword rules could not.
// Suggestions naming an unknown item or phase are dropped.
func (c *Client) SuggestPhases(ctx context.Context, phases []PhaseSummary, items []ItemSummary) (*SuggestResult, error) {
	if len(items) == 0 {
		return &SuggestResult{}, nil
	}
	prompt, err := buildPrompt(phases, items)
	if err != nil {
		return nil, err
	}

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(4096),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude API call: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return parseSuggestions(text, phases, items)
}

func parseSuggestions(text string, phases []PhaseSummary, items []ItemSummary) (*SuggestResult, error) {
	text = stripJSONFences(text)

	var raw SuggestResult
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse claude response: %w\nraw: %s", err, text)
	}

	knownPhase := make(map[string]bool, len(phases))
	for _, p := range phases {
		knownPhase[p.ID] = true
	}
	descs := make(map[string]string, len(items))
	for _, it := range items {
		descs[it.ID] = rules.Normalize(it.Description)
	}

	result := &SuggestResult{Suggestions: []Suggestion{}}
	seen := make(map[string]bool)
	for _, s := range raw.Suggestions {
		desc, ok := descs[s.ItemID]
		if !ok || seen[s.ItemID] || !knownPhase[s.Phase] {
			continue
		}
		seen[s.ItemID] = true
		s.Keyword = rules.Normalize(strings.TrimSpace(s.Keyword))
		if !strings.Contains(desc, s.Keyword) {
			s.Keyword = ""
		}
		result.Suggestions = append(result.Suggestions, s)
	}
	return result, nil
}

// stripJSONFences removes markdown code fences that Claude sometimes adds.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	// Remove ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		// Strip opening fence line
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		// Strip closing fence
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
