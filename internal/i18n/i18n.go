// Package i18n provides localized message lookup by semantic key.
//
// The rest of the codebase only ever deals in keys; every user-facing
// string lives here. Catalogs are compiled in for the two supported
// locales, Spanish (default) and English.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a requested locale is unknown.
const DefaultLocale = "es"

var supported = []language.Tag{
	language.Spanish, // first entry is the fallback
	language.English,
}

var matcher = language.NewMatcher(supported)

// Params carries substitution values for a message template.
type Params map[string]string

// Catalog resolves semantic keys to localized strings.
type Catalog struct {
	tables map[string]map[string]string
}

// New returns a catalog with the built-in es and en tables.
func New() *Catalog {
	return &Catalog{tables: map[string]map[string]string{
		"es": spanish,
		"en": english,
	}}
}

// T resolves key in the given locale, substituting {param} placeholders.
// Unknown locales fall back to Spanish; unknown keys return the key
// itself so a missing entry is visible rather than silent.
func (c *Catalog) T(locale, key string, params Params) string {
	table, ok := c.tables[locale]
	if !ok {
		table = c.tables[DefaultLocale]
	}
	msg, ok := table[key]
	if !ok {
		return key
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}

// MatchLocale normalizes an arbitrary language tag ("en-US", "ES", ...)
// to one of the supported locales.
func MatchLocale(tag string) string {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return DefaultLocale
	}
	_, index, _ := matcher.Match(parsed)
	if index == 1 {
		return "en"
	}
	return "es"
}
