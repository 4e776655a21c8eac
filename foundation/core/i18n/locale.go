// File: locale.go
// Title: Locale Detection and Matching
// Description: Normalizes locale ids to the ll_CC form and matches
//              Accept-Language headers and POSIX environment settings against
//              the available locale tables.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of locale detection
// - 2026-10-19 v0.2.0: ll_CC ids, POSIX environment detection

package i18n

import (
	"os"
	"sort"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/utils/stringx"
)

// LocalePreference represents a locale preference with quality score
type LocalePreference struct {
	Locale  string  // Locale code (e.g., "en", "en-US", "ru_RU")
	Quality float64 // Quality score (0.0 - 1.0)
}

// DetectLocale detects the best matching locale from an Accept-Language
// header. It falls back to the default locale.
func (m *Manager) DetectLocale(acceptLanguage string) string {
	if stringx.IsBlank(acceptLanguage) {
		return m.defaultLocale
	}

	preferences := parseAcceptLanguage(acceptLanguage)
	if len(preferences) == 0 {
		return m.defaultLocale
	}

	if best := findBestLocaleMatch(preferences, m.GetAvailableLocales()); best != "" {
		return best
	}
	return m.defaultLocale
}

// DetectSystemLocale matches LC_ALL, LC_TIME and LANG, in that order,
// against the available locales.
func (m *Manager) DetectSystemLocale() string {
	var preferences []LocalePreference
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		value := os.Getenv(key)
		if stringx.IsBlank(value) || value == "C" || value == "POSIX" {
			continue
		}
		preferences = append(preferences, LocalePreference{Locale: value, Quality: 1.0})
	}

	if best := findBestLocaleMatch(preferences, m.GetAvailableLocales()); best != "" {
		return best
	}
	return m.defaultLocale
}

// parseAcceptLanguage parses an Accept-Language header into locale preferences
func parseAcceptLanguage(acceptLang string) []LocalePreference {
	var preferences []LocalePreference

	for _, part := range strings.Split(acceptLang, ",") {
		part = strings.TrimSpace(part)
		if stringx.IsBlank(part) {
			continue
		}

		// "en-US;q=0.9", "en;q=0.8" or "de"
		locale := part
		quality := 1.0
		if idx := strings.Index(part, ";"); idx >= 0 {
			locale = strings.TrimSpace(part[:idx])
			for _, param := range strings.Split(part[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if strings.HasPrefix(param, "q=") {
					if q, err := strconv.ParseFloat(strings.TrimPrefix(param, "q="), 64); err == nil {
						quality = q
					}
					break
				}
			}
		}

		if locale != "" && locale != "*" {
			preferences = append(preferences, LocalePreference{Locale: locale, Quality: quality})
		}
	}

	sort.SliceStable(preferences, func(i, j int) bool {
		return preferences[i].Quality > preferences[j].Quality
	})
	return preferences
}

// findBestLocaleMatch tries each preference in order: exact id, then the
// first available locale with the same language.
func findBestLocaleMatch(preferences []LocalePreference, available []string) string {
	availableSet := make(map[string]bool, len(available))
	byLanguage := make(map[string]string, len(available))
	for _, locale := range available {
		availableSet[locale] = true
		language, _ := SplitLocale(locale)
		if _, exists := byLanguage[language]; !exists {
			byLanguage[language] = locale
		}
	}

	for _, pref := range preferences {
		normalized := NormalizeLocale(pref.Locale)
		if normalized == "" {
			continue
		}
		if availableSet[normalized] {
			return normalized
		}
		language, _ := SplitLocale(normalized)
		if locale, ok := byLanguage[language]; ok {
			return locale
		}
	}
	return ""
}

// NormalizeLocale converts "ru-ru", "RU_RU.UTF-8" and "ru_RU" to "ru_RU".
// A bare language ("de") stays lower case. Invalid input yields "".
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if stringx.IsBlank(locale) {
		return ""
	}

	// POSIX suffixes: encoding and modifier
	if idx := strings.IndexAny(locale, ".@"); idx >= 0 {
		locale = locale[:idx]
	}

	parts := strings.Split(strings.ReplaceAll(locale, "-", "_"), "_")
	language := strings.ToLower(parts[0])
	if len(language) != 2 && len(language) != 3 {
		return ""
	}
	for _, r := range language {
		if r < 'a' || r > 'z' {
			return ""
		}
	}

	if len(parts) > 1 && len(parts[1]) == 2 {
		return language + "_" + strings.ToUpper(parts[1])
	}
	return language
}

// ValidateLocale validates if a locale string is in valid format
func ValidateLocale(locale string) error {
	if stringx.IsBlank(locale) {
		return mdwerror.New("locale cannot be empty").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.ValidateLocale")
	}

	if NormalizeLocale(locale) == "" {
		return mdwerror.New("invalid locale format").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.ValidateLocale").
			WithDetail("locale", locale).
			WithDetail("expected_format", "e.g., 'en', 'en_US'")
	}
	return nil
}

// SplitLocale splits a locale into language and country parts
func SplitLocale(locale string) (language, country string) {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return "", ""
	}

	language, country, _ = strings.Cut(normalized, "_")
	return language, country
}

// GetLocaleDisplayName returns a human-readable name for the locales that
// ship with the module, or the normalized id otherwise.
func GetLocaleDisplayName(locale string) string {
	displayNames := map[string]string{
		"en":    "English",
		"en_US": "English (United States)",
		"de":    "Deutsch",
		"de_DE": "Deutsch (Deutschland)",
		"ru":    "Русский",
		"ru_RU": "Русский (Россия)",
	}

	normalized := NormalizeLocale(locale)
	if name, ok := displayNames[normalized]; ok {
		return name
	}
	if normalized != "" {
		return normalized
	}
	return locale
}
