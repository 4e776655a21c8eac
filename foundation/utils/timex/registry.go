// File: registry.go
// Title: Token Format Registry
// Description: An ordered, concurrency-safe registry of format tokens keyed
//              by sigil.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.2.0: Initial implementation

package timex

import (
	"sync"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
)

// Registry maps sigils to tokens. Iteration follows registration order; an
// overwritten sigil keeps its position. Token fragments are not validated.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	tokens   map[string]Token
	revision uint64
}

// NewRegistry returns a registry holding the built-in tokens.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, token := range BuiltinTokens() {
		r.put(token)
	}
	return r
}

// NewEmptyRegistry returns a registry without tokens.
func NewEmptyRegistry() *Registry {
	return &Registry{tokens: make(map[string]Token)}
}

// Register inserts or overwrites a token.
func (r *Registry) Register(token Token) error {
	if token == nil || token.Sigil() == "" {
		return mdwerror.New("token must have a sigil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("timex.Registry.Register")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(token)
	return nil
}

func (r *Registry) put(token Token) {
	sigil := token.Sigil()
	if _, exists := r.tokens[sigil]; !exists {
		r.order = append(r.order, sigil)
	}
	r.tokens[sigil] = token
	r.revision++
}

// Unregister removes a token and reports whether it existed.
func (r *Registry) Unregister(sigil string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[sigil]; !exists {
		return false
	}
	delete(r.tokens, sigil)
	for i, s := range r.order {
		if s == sigil {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	r.revision++
	return true
}

// Lookup returns the token for a sigil.
func (r *Registry) Lookup(sigil string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.tokens[sigil]
	return token, ok
}

// Tokens returns a snapshot of the tokens in registry order.
func (r *Registry) Tokens() []Token {
	tokens, _ := r.snapshot()
	return tokens
}

// Sigils returns the registered sigils in registry order.
func (r *Registry) Sigils() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// snapshot returns the tokens together with the revision they belong to.
// The revision changes on every mutation.
func (r *Registry) snapshot() ([]Token, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]Token, 0, len(r.order))
	for _, sigil := range r.order {
		tokens = append(tokens, r.tokens[sigil])
	}
	return tokens, r.revision
}
