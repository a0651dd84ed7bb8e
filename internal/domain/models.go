// Package domain defines the core types of the fiqh assistant: conversation
// messages, the four-school madhab enum, saved issues (bookmarks), and the
// persistence models mapped with GORM.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message typed by the person asking.
	RoleUser Role = "user"
	// RoleAssistant marks a reply produced by the answering model
	// (or a locally substituted fallback).
	RoleAssistant Role = "assistant"
)

// Madhab is one of the four recognized Sunni schools of jurisprudence, or
// MadhabNone when the user asked without selecting a school.
type Madhab string

const (
	MadhabNone    Madhab = "none"
	MadhabHanafi  Madhab = "hanafi"
	MadhabMaliki  Madhab = "maliki"
	MadhabShafi   Madhab = "shafi"
	MadhabHanbali Madhab = "hanbali"
)

// arabicMadhabNames maps the canonical Arabic school names (as they appear in
// data exported by earlier clients) onto the enum.
var arabicMadhabNames = map[string]Madhab{
	"غير محدد": MadhabNone,
	"الحنفي":   MadhabHanafi,
	"المالكي":  MadhabMaliki,
	"الشافعي":  MadhabShafi,
	"الحنبلي":  MadhabHanbali,
}

// Madhabs lists every school value in display order, MadhabNone first.
func Madhabs() []Madhab {
	return []Madhab{MadhabNone, MadhabHanafi, MadhabMaliki, MadhabShafi, MadhabHanbali}
}

// ParseMadhab converts a wire value into a Madhab. It accepts the lowercase
// identifiers used by the API ("hanafi", …), an empty string (treated as
// MadhabNone), and the canonical Arabic names for compatibility with data
// saved by older clients.
func ParseMadhab(s string) (Madhab, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return MadhabNone, nil
	}
	if m, ok := arabicMadhabNames[t]; ok {
		return m, nil
	}
	switch Madhab(strings.ToLower(t)) {
	case MadhabNone, MadhabHanafi, MadhabMaliki, MadhabShafi, MadhabHanbali:
		return Madhab(strings.ToLower(t)), nil
	}
	return MadhabNone, fmt.Errorf("unknown madhab %q", s)
}

// UnmarshalJSON accepts the same forms as ParseMadhab so persisted bookmark
// payloads written by older clients load cleanly.
func (m *Madhab) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMadhab(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Message is a single turn of the conversation. Messages are immutable once
// created and are only ever appended to the history; they are never updated
// or deleted.
//
// Fields:
//   - ID: collision-resistant UUID assigned at creation.
//   - Role: "user" or "assistant".
//   - Content: full text of the turn (assistant replies may span many lines).
//   - Timestamp: creation time (UTC).
//   - Madhab: the school selected when the turn was created; assistant replies
//     carry the same tag as the user turn that triggered them.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Madhab    Madhab    `json:"madhab,omitempty"`
}

// SavedIssue is a bookmarked question/answer pair. Its ID is copied from the
// source message, which is what makes the collection deduplicable: at most
// one SavedIssue exists per message id.
//
// A SavedIssue is an independent copy; it does not track later changes to the
// conversation. Title is derived at bookmark time and capped at
// TitleMaxRunes, and Timestamp records when the bookmark was created, not
// when the message was.
type SavedIssue struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Madhab    Madhab    `json:"madhab"`
	Timestamp time.Time `json:"timestamp"`
}

// TitleMaxRunes is the hard cap applied to derived bookmark titles.
const TitleMaxRunes = 120

// KVEntry is a durable key-value row. The bookmark collection is serialized
// as a whole and stored under a single well-known key on every mutation.
type KVEntry struct {
	Key       string    `json:"key"        gorm:"type:TEXT;primaryKey"`
	Value     string    `json:"value"      gorm:"type:TEXT;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for KVEntry.
func (KVEntry) TableName() string { return "kv_entries" }
