package views

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported locales, first is the fallback
var Locales = []string{"en", "vi"}

var localeMatcher = language.NewMatcher([]language.Tag{language.English, language.Vietnamese})

// NormalizeLocale returns the supported locale named by s
func NormalizeLocale(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, locale := range Locales {
		if s == locale {
			return locale, true
		}
	}
	return "", false
}

// NegotiateLocale picks a supported locale from an Accept-Language header,
// or fallback when nothing matches
func NegotiateLocale(acceptLanguage, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return Locales[index]
}
