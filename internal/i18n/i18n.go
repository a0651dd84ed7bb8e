// Package i18n holds the bilingual (Arabic/English) text of the platform:
// the seeded welcome message, the static failure reply, share and print
// strings, and the localized madhab labels.
//
// The tables are plain read-only values looked up by Language and threaded
// through constructors explicitly; nothing in this package is mutable at
// runtime.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/muinapp/go-fiqh-backend/internal/domain"
)

// Language selects which half of the text table the application uses.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// matcher resolves free-form language inputs ("ar-EG", "en_US", …) against
// the two supported languages, Arabic first so it wins as the default.
var matcher = language.NewMatcher([]language.Tag{
	language.Arabic,
	language.English,
})

// Parse normalizes a language string to a supported Language. Unrecognized
// or empty input resolves to Arabic, the platform's primary language.
func Parse(s string) Language {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return Arabic
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return English
	}
	return Arabic
}

// Valid reports whether s is exactly one of the supported language codes.
func Valid(s string) bool {
	return s == string(Arabic) || s == string(English)
}

// Table is the set of localized strings the services need. Rendering copy
// (hero text, button labels and so on) lives with the front-end; only the
// strings that reach stored data or outgoing payloads are kept here.
type Table struct {
	// WelcomeMessage seeds a fresh conversation as the first assistant turn.
	WelcomeMessage string
	// AnswerFailure replaces the assistant reply when the answering service
	// is unreachable or errors out.
	AnswerFailure string
	// ShareHeader prefixes the WhatsApp share blob.
	ShareHeader string
	// PrintTitle, PrintSubtitle and PrintFooter frame the printable document.
	PrintTitle    string
	PrintSubtitle string
	PrintFooter   string
}

var tables = map[Language]Table{
	Arabic: {
		WelcomeMessage: `أهلاً بك في منصة "معين المفتي". أنا مساعدك الفقهي التعليمي، أنقل لك أقوال العلماء المعتمدين من أمهات الكتب الشرعية. كيف يمكنني مساعدتك اليوم؟ يمكنك اختيار مذهب فقهي معين أو طرح سؤالك مباشرة.`,
		AnswerFailure:  "عذراً، واجهنا مشكلة في الاتصال بالخدمة. يرجى المحاولة لاحقاً.",
		ShareHeader:    "*مسألة فقهية من منصة معين المفتي:*\n\n",
		PrintTitle:     "معين المفتي",
		PrintSubtitle:  "المساعد الفقهي التعليمي",
		PrintFooter:    "تم استخراج هذه المادة من منصة معين المفتي.",
	},
	English: {
		WelcomeMessage: "Welcome to Muin Al-Mufti. I am your educational assistant, transmitting the views of approved scholars from primary sources. How can I help you today? You can choose a specific school or ask directly.",
		AnswerFailure:  "Sorry, we encountered a problem connecting to the service. Please try again later.",
		ShareHeader:    "*A fiqh issue from the Muin Al-Mufti platform:*\n\n",
		PrintTitle:     "Muin Al-Mufti",
		PrintSubtitle:  "AI Jurisprudence Assistant",
		PrintFooter:    "This material was extracted from the Muin Al-Mufti platform.",
	},
}

// Lookup returns the text table for lang, falling back to Arabic for any
// unknown value.
func Lookup(lang Language) Table {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[Arabic]
}

// madhabLabels carries the display names of the schools per language. The
// Arabic names are the canonical ones used by the classical sources.
var madhabLabels = map[Language]map[domain.Madhab]string{
	Arabic: {
		domain.MadhabNone:    "غير محدد",
		domain.MadhabHanafi:  "الحنفي",
		domain.MadhabMaliki:  "المالكي",
		domain.MadhabShafi:   "الشافعي",
		domain.MadhabHanbali: "الحنبلي",
	},
	English: {
		domain.MadhabNone:    "Unspecified",
		domain.MadhabHanafi:  "Hanafi",
		domain.MadhabMaliki:  "Maliki",
		domain.MadhabShafi:   "Shafi'i",
		domain.MadhabHanbali: "Hanbali",
	},
}

// MadhabLabel returns the display name of m in lang. Unknown combinations
// fall back to the Arabic label of MadhabNone.
func MadhabLabel(m domain.Madhab, lang Language) string {
	byLang, ok := madhabLabels[lang]
	if !ok {
		byLang = madhabLabels[Arabic]
	}
	if label, ok := byLang[m]; ok {
		return label
	}
	return madhabLabels[Arabic][domain.MadhabNone]
}

// SystemInstruction is the fixed instruction sent with every answering
// request. It is bilingual by design: the model answers in the language the
// user wrote in.
const SystemInstruction = `أنت المساعد الفقهي التعليمي لمنصة "معين المفتي" (Muin Al-Mufti).
Your role is to help users understand Islamic rulings according to the Sunni schools of thought by transmitting established scholarship from classical sources.

Instructions:
1. Respond in the language used by the user (Arabic or English).
2. For Arabic responses, use the traditional formatting (Headers: Brief, Detail, Evidence, Conclusion).
3. Reference classical sources (Hanafi, Maliki, Shafi'i, Hanbali).
4. No Markdown formatting (no **, #, etc.). Use clear line breaks.
5. Mandatory Disclaimer at the end (Bilingual if the conversation is mixed, or in the response language):
"هذه المادة تعليمية تهدف لتقريب التراث الفقهي، ولا تعد فتوى رسمية لمسائلكم الخاصة. يُرجى مراجعة العلماء والمفتين المختصين في النوازل الشخصية."
"This material is educational and aims to bring jurisprudential heritage closer; it is not an official fatwa for personal matters. Please consult specialized scholars for specific cases."

Style: Respectful, humble, and clear. Do not issue independent fatwas; act as a guide to existing heritage.`
