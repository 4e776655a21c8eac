// File: parse.go
// Title: Parser
// Description: Compiles token patterns into anchored regular expressions and
//              parses strings into dates, with ordered format autodetection.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with ordered layout list
// - 2026-10-19 v0.2.0: Token patterns, compiled expression cache

package timex

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"

	mdwlog "github.com/msto63/tempus/foundation/core/log"
)

// compiledPattern is a pattern turned into a regular expression. Group i+1
// belongs to tokens[i].
type compiledPattern struct {
	re     *regexp.Regexp
	tokens []Token
}

// DetectFormat returns the first autodetect candidate that parses s.
func (e *Engine) DetectFormat(s string) (string, bool) {
	for _, pattern := range e.DetectFormats() {
		if _, ok := e.parseFields(s, pattern); ok {
			return pattern, true
		}
	}
	return "", false
}

// Parse parses s with pattern and returns the normalized date. An empty
// pattern autodetects. Weekday tokens match but contribute nothing.
func (e *Engine) Parse(s, pattern string) (Date, bool) {
	fields, ok := e.ParseFields(s, pattern)
	if !ok {
		return Date{}, false
	}
	return Normalize(fields), true
}

// ParseFields parses s and returns the merged fields before defaulting and
// normalization.
func (e *Engine) ParseFields(s, pattern string) (Fields, bool) {
	if pattern == "" {
		detected, ok := e.DetectFormat(s)
		if !ok {
			return Fields{}, false
		}
		pattern = detected
	}
	return e.parseFields(s, pattern)
}

func (e *Engine) parseFields(s, pattern string) (Fields, bool) {
	compiled, ok := e.compile(pattern)
	if !ok {
		return Fields{}, false
	}

	match := compiled.re.FindStringSubmatch(s)
	if match == nil {
		return Fields{}, false
	}

	names := e.names()
	var result Fields
	for i, token := range compiled.tokens {
		fields, ok := token.Parse(match[compiled.re.SubexpIndex(groupName(i))], names)
		if !ok {
			return Fields{}, false
		}
		result = result.Merge(fields)
	}
	return result, true
}

// compile scans pattern left to right. At each position the first sigil in
// registry order that matches starts a capture group; everything else is
// literal text.
func (e *Engine) compile(pattern string) (*compiledPattern, bool) {
	tokens, revision := e.registry.snapshot()
	key := strconv.FormatUint(revision, 10) + "\x00" + pattern
	if cached, found := e.patterns.Get(key); found {
		compiled, ok := cached.(*compiledPattern)
		return compiled, ok && compiled != nil
	}

	var expr, literal strings.Builder
	var used []Token
	expr.WriteString("^")

	flush := func() {
		expr.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}

	for i := 0; i < len(pattern); {
		token := matchSigil(tokens, pattern[i:])
		if token == nil {
			literal.WriteByte(pattern[i])
			i++
			continue
		}
		flush()
		expr.WriteString("(?P<" + groupName(len(used)) + ">" + token.Pattern() + ")")
		used = append(used, token)
		i += len(token.Sigil())
	}
	flush()
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		e.logger.Debug("pattern does not compile", mdwlog.Fields{"pattern": pattern, "error": err.Error()})
		e.patterns.Set(key, (*compiledPattern)(nil), cache.DefaultExpiration)
		return nil, false
	}

	compiled := &compiledPattern{re: re, tokens: used}
	e.patterns.Set(key, compiled, cache.DefaultExpiration)
	return compiled, true
}

func matchSigil(tokens []Token, rest string) Token {
	for _, token := range tokens {
		if strings.HasPrefix(rest, token.Sigil()) {
			return token
		}
	}
	return nil
}

func groupName(i int) string {
	return "t" + strconv.Itoa(i)
}
