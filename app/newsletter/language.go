package newsletter

import (
	"fmt"
	"time"
)

// Language is an output language of the newsletter. Each language
// carries its own date convention; currency formatting is deliberately
// not language-driven (see formatter.go).
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
)

func ParseLanguage(value string) (Language, error) {
	switch Language(value) {
	case LanguageDE, LanguageEN:
		return Language(value), nil
	default:
		return "", fmt.Errorf("unsupported language '%s' (expected 'de' or 'en')", value)
	}
}

// DateLayout returns the language's date convention: DD.MM.YYYY for
// German, YYYY-MM-DD for English.
func (l Language) DateLayout() string {
	if l == LanguageDE {
		return "02.01.2006"
	}
	return "2006-01-02"
}

func (l Language) FormatDate(t time.Time) string {
	return t.Format(l.DateLayout())
}

// FormatValidityDate reformats an ISO validity date (YYYY-MM-DD) into
// the language's convention. An unparseable input passes through
// unchanged rather than failing generation.
func (l Language) FormatValidityDate(value string) string {
	if value == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return l.FormatDate(parsed)
}
