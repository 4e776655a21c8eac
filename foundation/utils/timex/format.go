// File: format.go
// Title: Formatter
// Description: Renders dates through the token registry.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with named layouts
// - 2026-10-19 v0.2.0: Token based formatting

package timex

import "strings"

// Format normalizes d and renders pattern. Each registered token, in
// registry order, replaces the first occurrence of its sigil in the working
// string. A repeated sigil is therefore only expanded once, and a rendered
// value containing a later sigil is expanded again.
func (e *Engine) Format(d Dater, pattern string) string {
	date := e.withDerived(Normalize(d), DateOptions{DayOfWeek: true})
	names := e.names()

	result := pattern
	for _, token := range e.registry.Tokens() {
		sigil := token.Sigil()
		if !strings.Contains(result, sigil) {
			continue
		}
		result = strings.Replace(result, sigil, token.Render(date, names), 1)
	}
	return result
}
