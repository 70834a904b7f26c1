// Package models defines client-side data models used by the JobBoard CLI
// and the mock backend.
package models

import "strings"

// Locale is one of the languages the backend can answer in.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

// DefaultLocale is used whenever no valid locale was stored or configured.
const DefaultLocale = LocaleEN

// Locales lists the closed set of supported locales.
var Locales = []Locale{LocaleEN, LocaleRU}

// ParseLocale normalises s and reports whether it names a supported locale.
func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l belongs to Locales.
func (l Locale) Valid() bool {
	for _, v := range Locales {
		if v == l {
			return true
		}
	}
	return false
}

// OrDefault returns l when valid and DefaultLocale otherwise.
func (l Locale) OrDefault() Locale {
	if l.Valid() {
		return l
	}
	return DefaultLocale
}
