// Package services – bookmark title derivation.
//
// A saved issue's title is a pure function of the conversation history and
// the bookmarked message: it is computed against an immutable snapshot, not
// against live store state.
package services

import (
	"strings"
	"unicode/utf8"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
)

// rulingSummaryPrefix is the Arabic "ruling summary:" label the model places
// on the first line of its structured replies. It is stripped when a reply's
// own first line has to serve as the title.
const rulingSummaryPrefix = "ملخص الحكم: "

// DeriveTitle computes the title for bookmarking msg given the history it
// was part of. First match wins:
//
//  1. The content of the nearest user message preceding msg in history.
//  2. Otherwise (msg is the seed message, or it was not found in history),
//     the first line of msg's own content, with a leading ruling-summary
//     label removed.
//
// The result is hard-cut to domain.TitleMaxRunes runes, no ellipsis.
func DeriveTitle(history []domain.Message, msg domain.Message) string {
	title := ""

	idx := -1
	for i := range history {
		if history[i].ID == msg.ID {
			idx = i
			break
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			title = history[i].Content
			break
		}
	}

	if title == "" {
		line, _, _ := strings.Cut(msg.Content, "\n")
		title = strings.TrimPrefix(line, rulingSummaryPrefix)
	}

	return truncateRunes(title, domain.TitleMaxRunes)
}

// truncateRunes hard-cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
