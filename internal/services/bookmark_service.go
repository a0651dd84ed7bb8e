// Package services – BookmarkService
//
// This file implements the saved-issues store. The collection lives in
// memory ordered most-recently-bookmarked first, and the whole collection is
// serialized to the durable key-value collaborator under a fixed key on
// every mutation. At startup it is rehydrated once from that key; a missing
// or unparsable payload degrades to an empty collection (logged, never
// surfaced).
//
// In a concurrent process the read-modify-write-persist sequence is a
// critical section, so every mutating method holds the store mutex across
// both the slice update and the storage write.
package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

// KV is the durable storage collaborator: synchronous get/set of opaque
// string payloads, surviving process restarts.
type KV interface {
	// Get returns the payload under key, with found=false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set replaces the payload under key.
	Set(ctx context.Context, key, value string) error
}

// DefaultBookmarksKey is the storage key holding the serialized collection.
const DefaultBookmarksKey = "muin_bookmarks"

// BookmarkService owns the saved-issues collection: toggle, remove, search,
// and the single "currently inspected" selection. Safe for concurrent use.
type BookmarkService struct {
	kv  KV
	key string

	// now is the bookmark-creation clock; overridable in tests.
	now func() time.Time

	mu       sync.Mutex
	issues   []domain.SavedIssue
	selected string // id of the inspected issue, "" when none
}

// NewBookmarkService builds the store and loads the persisted collection
// once. Load failures are logged and degrade to an empty collection; they
// never fail construction.
func NewBookmarkService(ctx context.Context, kv KV, key string) *BookmarkService {
	if key == "" {
		key = DefaultBookmarksKey
	}
	s := &BookmarkService{
		kv:     kv,
		key:    key,
		now:    func() time.Time { return time.Now().UTC() },
		issues: []domain.SavedIssue{},
	}
	s.load(ctx)
	return s
}

// load rehydrates the collection from durable storage. Absent key → empty;
// unparsable payload → empty, logged for diagnostics.
func (s *BookmarkService) load(ctx context.Context) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("bookmark storage read failed; starting empty")
		return
	}
	if !found {
		return
	}
	var issues []domain.SavedIssue
	if err := json.Unmarshal([]byte(raw), &issues); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("bookmark storage payload unparsable; starting empty")
		return
	}
	if issues != nil {
		s.issues = issues
	}
}

// persistLocked serializes the full ordered collection and writes it under
// the fixed key. Callers hold mu.
func (s *BookmarkService) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.issues)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(raw))
}

// Toggle bookmarks msg, or removes the existing bookmark when one already
// exists for msg's id (symmetric unbookmark). history is the conversation
// snapshot the title is derived from. It returns whether the message is
// bookmarked after the call and, when newly added, the created issue.
func (s *BookmarkService) Toggle(ctx context.Context, history []domain.Message, msg domain.Message) (bool, *domain.SavedIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.issues {
		if s.issues[i].ID == msg.ID {
			s.issues = append(s.issues[:i], s.issues[i+1:]...)
			if s.selected == msg.ID {
				s.selected = ""
			}
			return false, nil, s.persistLocked(ctx)
		}
	}

	madhab := msg.Madhab
	if madhab == "" {
		madhab = domain.MadhabNone
	}
	issue := domain.SavedIssue{
		ID:        msg.ID,
		Title:     DeriveTitle(history, msg),
		Content:   msg.Content,
		Madhab:    madhab,
		Timestamp: s.now(),
	}

	// Most-recently-bookmarked first.
	s.issues = append([]domain.SavedIssue{issue}, s.issues...)
	if err := s.persistLocked(ctx); err != nil {
		return false, nil, err
	}
	return true, &issue, nil
}

// Remove deletes the saved issue with the given id. It is idempotent:
// removing an absent id succeeds without touching storage.
func (s *BookmarkService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.issues {
		if s.issues[i].ID == id {
			s.issues = append(s.issues[:i], s.issues[i+1:]...)
			if s.selected == id {
				s.selected = ""
			}
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// Search returns the saved issues whose title, content, or madhab label
// (Arabic or English) contains term, case-insensitively. An empty term
// matches everything. The result is a copy; the collection is not mutated.
func (s *BookmarkService) Search(term string) []domain.SavedIssue {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.SavedIssue, 0, len(s.issues))
	for _, issue := range s.issues {
		if term == "" || issueMatches(issue, term) {
			out = append(out, issue)
		}
	}
	return out
}

// issueMatches reports whether issue matches the lowercased term.
func issueMatches(issue domain.SavedIssue, term string) bool {
	return strings.Contains(strings.ToLower(issue.Title), term) ||
		strings.Contains(strings.ToLower(issue.Content), term) ||
		strings.Contains(strings.ToLower(i18n.MadhabLabel(issue.Madhab, i18n.Arabic)), term) ||
		strings.Contains(strings.ToLower(i18n.MadhabLabel(issue.Madhab, i18n.English)), term)
}

// View marks the saved issue with the given id as currently inspected and
// returns it. The selection is presentational state only; it is never
// persisted.
func (s *BookmarkService) View(id string) (*domain.SavedIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.issues {
		if s.issues[i].ID == id {
			s.selected = id
			issue := s.issues[i]
			return &issue, nil
		}
	}
	return nil, ErrBookmarkNotFound
}

// Selected returns the currently inspected issue, or ErrNoSelection when
// nothing is being inspected.
func (s *BookmarkService) Selected() (*domain.SavedIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return nil, ErrNoSelection
	}
	for i := range s.issues {
		if s.issues[i].ID == s.selected {
			issue := s.issues[i]
			return &issue, nil
		}
	}
	return nil, ErrNoSelection
}

// Dismiss clears the inspected-issue selection.
func (s *BookmarkService) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Len returns the number of saved issues.
func (s *BookmarkService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issues)
}
