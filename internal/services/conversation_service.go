// Package services – ConversationService
//
// This file implements the conversation store: an in-memory, process-lifetime
// ordered history of user and assistant turns, with exactly one submission in
// flight at a time. Submissions call the external answering provider with a
// bounded window of recent turns; a provider failure is absorbed locally by
// substituting the language-matched fallback reply, so no error from the
// external boundary ever escapes the store.
//
// Observability: Submit is OpenTelemetry-instrumented; the span records the
// selected madhab and the interface language.
package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/muinapp/go-fiqh-backend/internal/answer"
	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

// DefaultHistoryWindow is the number of trailing turns forwarded to the
// answering provider with each submission.
const DefaultHistoryWindow = 6

// ConversationService owns the ordered message history and mediates
// turn-taking with the answering provider. All methods are safe for
// concurrent use; the busy flag is the sole submission guard, so a second
// Submit while one is in flight is rejected without touching state.
type ConversationService struct {
	// Provider is the external answering boundary.
	Provider answer.Provider
	// HistoryWindow bounds the context forwarded per submission;
	// values <= 0 fall back to DefaultHistoryWindow.
	HistoryWindow int
	// MaxPromptRunes caps submissions by rune length; 0 disables the cap.
	MaxPromptRunes int

	mu       sync.Mutex
	lang     i18n.Language
	messages []domain.Message
	busy     bool
	touched  bool // a user submission has happened since the last seed
}

// NewConversationService builds a store seeded with the welcome message in
// the given language.
func NewConversationService(p answer.Provider, lang i18n.Language) *ConversationService {
	s := &ConversationService{
		Provider:      p,
		HistoryWindow: DefaultHistoryWindow,
		lang:          lang,
	}
	s.mu.Lock()
	s.seedLocked()
	s.mu.Unlock()
	return s
}

// seedLocked resets the history to the single welcome turn. Callers hold mu.
func (s *ConversationService) seedLocked() {
	s.messages = []domain.Message{{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   i18n.Lookup(s.lang).WelcomeMessage,
		Timestamp: time.Now().UTC(),
		Madhab:    domain.MadhabNone,
	}}
	s.touched = false
}

// Submit appends a user turn and, once the provider resolves, exactly one
// assistant turn carrying the same madhab tag.
//
// Preconditions are no-ops, not failures: blank text returns ErrEmptyPrompt
// and a concurrent submission returns ErrBusy, in both cases without any
// state mutation. A provider error never propagates; the assistant turn is
// filled with the language-matched fallback text instead.
func (s *ConversationService) Submit(ctx context.Context, text string, madhab domain.Madhab) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(text) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.touched = true
	lang := s.lang

	// Context window: the trailing turns as the history stood before this
	// submission; the new user turn travels separately as the question.
	window := s.windowLocked()

	s.messages = append(s.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
		Madhab:    madhab,
	})
	s.mu.Unlock()

	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("madhab", string(madhab)),
			attribute.String("language", string(lang)),
		),
	)
	defer span.End()

	reply, err := s.Provider.Answer(ctx, text, window, madhab, lang)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			log.Warn().Err(err).Msg("answering provider failed; substituting fallback reply")
		}
		reply = answer.Fallback(lang)
	}

	assistant := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
		Madhab:    madhab,
	}

	s.mu.Lock()
	s.messages = append(s.messages, assistant)
	s.busy = false
	s.mu.Unlock()

	return &assistant, nil
}

// windowLocked returns the trailing HistoryWindow turns as provider context.
// Callers hold mu.
func (s *ConversationService) windowLocked() []answer.Turn {
	n := s.HistoryWindow
	if n <= 0 {
		n = DefaultHistoryWindow
	}
	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]answer.Turn, 0, len(s.messages)-start)
	for _, m := range s.messages[start:] {
		out = append(out, answer.Turn{Role: m.Role, Content: m.Content})
	}
	return out
}

// History returns a snapshot copy of the full message history in order.
func (s *ConversationService) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageByID returns the message with the given id, or ErrMessageNotFound.
func (s *ConversationService) MessageByID(id string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			m := s.messages[i]
			return &m, nil
		}
	}
	return nil, ErrMessageNotFound
}

// Busy reports whether a submission is currently in flight.
func (s *ConversationService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Language returns the active interface language.
func (s *ConversationService) Language() i18n.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// SetLanguage switches the interface language. The history is re-seeded with
// the welcome message in the new language only while the conversation is
// untouched; once the user has submitted anything, the history is preserved.
func (s *ConversationService) SetLanguage(lang i18n.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang == s.lang {
		return
	}
	s.lang = lang
	if !s.touched {
		s.seedLocked()
	}
}

// Reset discards the history and re-seeds the welcome message in the active
// language.
func (s *ConversationService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked()
}
