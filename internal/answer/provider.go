// Package answer is the boundary to the external answering service. The
// rest of the application talks to the Provider interface and treats the
// returned text as opaque; prompt construction and transport live here.
package answer

import (
	"context"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
	"github.com/muinapp/go-fiqh-backend/internal/i18n"
)

// Turn is one prior conversation entry forwarded as model context. Only the
// role and the text survive the boundary; ids, timestamps and madhab tags do
// not leave the process.
type Turn struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

// Provider produces a scholarly answer for a user question.
//
// history carries the trailing window of the conversation in chronological
// order; implementations must not reorder or extend it. A non-nil error means
// the external call failed and the caller should substitute a local fallback;
// Provider implementations never fabricate apologetic text themselves.
type Provider interface {
	Answer(ctx context.Context, text string, history []Turn, madhab domain.Madhab, lang i18n.Language) (string, error)
}

// Fallback returns the static, language-matched reply used in place of an
// answer when the provider fails.
func Fallback(lang i18n.Language) string {
	return i18n.Lookup(lang).AnswerFailure
}
