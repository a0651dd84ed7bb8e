package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

// ErrEmptyAnswer is returned when the model call succeeds but yields no
// usable candidate text (safety filters, truncation).
var ErrEmptyAnswer = errors.New("answering service returned no text")

// GeminiConfig configures the Gemini-backed Provider.
type GeminiConfig struct {
	APIKey      string
	Model       string        // e.g. "gemini-3-pro-preview"
	Temperature float32       // sampling temperature, typically 0.7
	Timeout     time.Duration // per-call deadline; 0 disables the local deadline
}

// Gemini answers questions through the Gemini API. It is safe for concurrent
// use; the underlying client maintains its own connection state.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGemini builds a Gemini provider. The API key is not validated here; an
// invalid key surfaces as a call error, which callers already degrade into
// the static fallback reply.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-3-pro-preview"
	}
	return &Gemini{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Answer implements Provider.
func (g *Gemini) Answer(ctx context.Context, text string, history []Turn, madhab domain.Madhab, lang i18n.Language) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := genai.RoleUser
		if t.Role != domain.RoleUser {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: buildPrompt(text, madhab, lang)}},
	})

	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: i18n.SystemInstruction}}},
		Temperature:       &temp,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	out := candidateText(resp)
	if out == "" {
		return "", ErrEmptyAnswer
	}
	return out, nil
}

// buildPrompt frames the user question for the model: an interface-language
// preamble always, and a school clause plus question label when the user
// selected a madhab. The school clause is Arabic regardless of interface
// language; the model is instructed to answer in the user's language.
func buildPrompt(text string, madhab domain.Madhab, lang i18n.Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(Interface Language: %s)\n", lang)
	if madhab != domain.MadhabNone {
		fmt.Fprintf(&b, "(المذهب المختار للمستخدم: المذهب %s)\nالسؤال: %s",
			i18n.MadhabLabel(madhab, i18n.Arabic), text)
	} else {
		b.WriteString(text)
	}
	return b.String()
}

// candidateText extracts the first candidate's concatenated text parts.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
