// Conversation HTTP handlers.
//
// This file exposes REST endpoints for the single consultation thread:
//   - GET  /conversation           (current state: language, busy, messages)
//   - POST /conversation/messages  (submit a question and get the ruling)
//   - PUT  /conversation/language  (switch interface language)
//   - POST /conversation/reset     (start over with a fresh greeting)
//
// Handlers are transport-thin: they validate and normalize inputs, delegate to
// application services, and translate results into HTTP responses (including
// idempotency semantics).
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for that key, the handler returns the recorded assistant
// message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/http/middleware"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
	"github.com/muinapp/go-fiqh-backend/internal/repo"
	"github.com/muinapp/go-fiqh-backend/internal/services"
)

//
// Service contracts
//

// ConversationService defines the consultation thread operations consumed by
// HTTP handlers.
//
// Implementations must be safe for concurrent use; Submit must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Submit appends a user question and returns the generated assistant reply.
	Submit(ctx context.Context, text string, madhab domain.Madhab) (*domain.Message, error)
	// History returns a snapshot of the full message history in order.
	History() []domain.Message
	// MessageByID returns the message with the given id.
	MessageByID(id string) (*domain.Message, error)
	// Busy reports whether a submission is currently in flight.
	Busy() bool
	// Language returns the active interface language.
	Language() i18n.Language
	// SetLanguage switches the interface language.
	SetLanguage(lang i18n.Language)
	// Reset clears the thread back to a fresh greeting.
	Reset()
}

// BookmarkService defines saved-issue operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and must honor the provided
// context on mutating operations, which persist the collection.
type BookmarkService interface {
	// Toggle saves msg as an issue, or removes it when already saved.
	Toggle(ctx context.Context, history []domain.Message, msg domain.Message) (bool, *domain.SavedIssue, error)
	// Remove deletes a saved issue by id. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error
	// Search returns saved issues matching term, newest first.
	Search(term string) []domain.SavedIssue
	// View marks an issue as inspected and returns it.
	View(id string) (*domain.SavedIssue, error)
	// Selected returns the currently inspected issue.
	Selected() (*domain.SavedIssue, error)
	// Dismiss clears the inspected-issue selection.
	Dismiss()
}

// ShareService renders messages for export surfaces.
type ShareService interface {
	// WhatsAppText prefixes content with the localized share header.
	WhatsAppText(content string, lang i18n.Language) string
	// WhatsAppURL returns the wa.me link carrying the share text.
	WhatsAppURL(content string, lang i18n.Language) string
	// PrintDocument writes a standalone printable HTML document.
	PrintDocument(w io.Writer, content string, lang i18n.Language) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the conversation, bookmarks, and sharing.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic. The optional DB enables idempotent replays of
// message submissions.
type Handlers struct {
	convSvc  ConversationService
	bmSvc    BookmarkService
	shareSvc ShareService

	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
//
// db may be nil, in which case Idempotency-Key replay is disabled. idemTTL
// bounds how long a recorded key can be replayed; values <= 0 default to 24h.
func New(convSvc ConversationService, bmSvc BookmarkService, shareSvc ShareService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{convSvc: convSvc, bmSvc: bmSvc, shareSvc: shareSvc, db: db, idemTTL: idemTTL}
}

//
// DTOs
//

// ConversationStateResponse is the full state of the consultation thread.
type ConversationStateResponse struct {
	// Language is the active interface language ("ar" or "en").
	Language i18n.Language `json:"language" example:"ar"`
	// Busy reports whether an answer is currently being generated.
	Busy bool `json:"busy"`
	// Messages is the ordered message history, greeting first.
	Messages []domain.Message `json:"messages"`
}

// PostMessageRequest is the JSON payload for submitting a question.
//
// Text is normalized by the handler (line endings and excessive blank lines)
// before being passed to the service layer, which enforces the length cap.
type PostMessageRequest struct {
	// Text is the question. It must be non-empty after trimming.
	Text string `json:"text" binding:"required,min=1" example:"ما حكم الوضوء بالماء المستعمل؟"`
	// Madhab optionally names the school of thought the ruling should follow.
	// Accepts identifiers ("hanafi") and Arabic display names ("الحنفي").
	Madhab string `json:"madhab" example:"hanafi"`
}

// PostMessageResponse is the JSON envelope for a generated assistant message.
type PostMessageResponse struct {
	// Message is the assistant ruling created as a result of the request.
	Message *domain.Message `json:"message"`
}

// SetLanguageRequest is the JSON payload for switching the interface language.
type SetLanguageRequest struct {
	// Language is a BCP 47 tag; it is matched to "ar" or "en".
	Language string `json:"language" binding:"required" example:"en"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeText normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxPromptRunes inspects the concrete ConversationService for a
// configured length limit. If unavailable, it returns a conservative fallback.
func discoverMaxPromptRunes(convSvc ConversationService) int {
	const fallback = 2000
	if cs, ok := convSvc.(*services.ConversationService); ok {
		if cs.MaxPromptRunes > 0 {
			return cs.MaxPromptRunes
		}
	}
	return fallback
}

//
// Handlers
//

// GetConversation godoc
// @ID          getConversation
// @Summary     Get the conversation state
// @Description Returns the active language, the busy flag, and the full
// @Description ordered message history starting with the greeting.
// @Tags        Conversation
// @Produce     json
// @Success     200  {object}  handlers.ConversationStateResponse
// @Router      /conversation [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	ok(c, http.StatusOK, ConversationStateResponse{
		Language: h.convSvc.Language(),
		Busy:     h.convSvc.Busy(),
		Messages: h.convSvc.History(),
	})
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Submit a question and get a ruling
// @Description Appends a user question to the conversation and generates an
// @Description assistant reply scoped to the requested madhab.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Conversation
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PostMessageRequest  true  "Question payload"
//
// @Success     200  {object}  handlers.PostMessageResponse  "Assistant ruling"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse        "Answer already in flight"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /conversation/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	madhab, err := domain.ParseMadhab(req.Madhab)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown madhab")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	text := sanitizeText(req.Text)
	maxRunes := discoverMaxPromptRunes(h.convSvc)
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("text too long: max %d runes", maxRunes))
		return
	}
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	// Idempotency (replay path): read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := h.convSvc.MessageByID(rec.MessageID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, PostMessageResponse{Message: prev})
				return
			}
		}
	}

	m, err := h.convSvc.Submit(ctx, text, madhab)
	if err != nil {
		switch err {
		case services.ErrBusy:
			fail(c, http.StatusConflict, ErrCodeAnswerPending, "an answer is already being generated")
		case services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("text too long: max %d runes", maxRunes))
		case services.ErrEmptyPrompt:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		}
		return
	}

	// Idempotency (store path): best effort.
	if idemKey != "" && h.db != nil {
		_, _ = repo.CreateIdempotency(ctx, h.db, idemKey, m.ID, http.StatusOK, h.idemTTL)
	}

	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}

// SetLanguage godoc
// @ID          setLanguage
// @Summary     Switch the interface language
// @Description Switches between Arabic and English. An untouched conversation
// @Description is re-seeded with the greeting in the new language.
// @Tags        Conversation
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SetLanguageRequest  true  "Language payload"
// @Success     200  {object}  handlers.ConversationStateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /conversation/language [put]
func (h *Handlers) SetLanguage(c *gin.Context) {
	var req SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "language required")
		return
	}
	if !i18n.Valid(req.Language) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "language must be ar or en")
		return
	}

	h.convSvc.SetLanguage(i18n.Parse(req.Language))
	h.GetConversation(c)
}

// ResetConversation godoc
// @ID          resetConversation
// @Summary     Reset the conversation
// @Description Discards the message history and re-seeds the greeting in the
// @Description active language. Saved issues are not affected.
// @Tags        Conversation
// @Produce     json
// @Success     200  {object}  handlers.ConversationStateResponse
// @Router      /conversation/reset [post]
func (h *Handlers) ResetConversation(c *gin.Context) {
	h.convSvc.Reset()
	h.GetConversation(c)
}
