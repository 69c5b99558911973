package automaton

import (
	"fmt"
)

// Patterns are glob expressions over action-name strings. The supported
// syntax mirrors the privilege patterns accepted in role definitions:
//
//   - `*` matches any run of characters, including the empty run
//   - `?` matches exactly one character
//   - `\` escapes the next character, allowing literal `*`, `?` and `\`
//
// A pattern with no wildcards matches exactly one action name.

// MalformedPatternError is returned by Compile when a pattern cannot be
// parsed. It is only ever surfaced at privilege definition time; automatons
// on the authorization hot path are always precompiled.
type MalformedPatternError struct {
	Pattern string
	Reason  string
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed action pattern %q: %s", e.Pattern, e.Reason)
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAnyChar
	tokenAnyRun
)

type token struct {
	kind tokenKind
	b    byte
}

func parsePattern(pattern string) ([]token, error) {
	tokens := make([]token, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			// Collapse runs of stars, they accept the same language.
			if len(tokens) > 0 && tokens[len(tokens)-1].kind == tokenAnyRun {
				continue
			}
			tokens = append(tokens, token{kind: tokenAnyRun})
		case '?':
			tokens = append(tokens, token{kind: tokenAnyChar})
		case '\\':
			if i+1 >= len(pattern) {
				return nil, &MalformedPatternError{Pattern: pattern, Reason: "dangling escape at end of pattern"}
			}
			i++
			tokens = append(tokens, token{kind: tokenLiteral, b: pattern[i]})
		default:
			tokens = append(tokens, token{kind: tokenLiteral, b: pattern[i]})
		}
	}
	return tokens, nil
}

// position identifies an NFA state: "the first i tokens of pattern p have
// been matched". Position len(tokens) is the accepting position.
type position struct {
	pattern int
	index   int
}

// patternNFA is the nondeterministic acceptor for a union of glob patterns,
// consumed by the subset construction in Compile.
type patternNFA struct {
	patterns [][]token
}

// closure expands a position across any `*` tokens, which match the empty
// run and therefore admit an epsilon move to the following token.
func (n *patternNFA) closure(pos position, out map[position]struct{}) {
	for {
		if _, ok := out[pos]; ok {
			return
		}
		out[pos] = struct{}{}
		tokens := n.patterns[pos.pattern]
		if pos.index >= len(tokens) || tokens[pos.index].kind != tokenAnyRun {
			return
		}
		pos = position{pattern: pos.pattern, index: pos.index + 1}
	}
}

func (n *patternNFA) start() map[position]struct{} {
	set := make(map[position]struct{})
	for p := range n.patterns {
		n.closure(position{pattern: p}, set)
	}
	return set
}

func (n *patternNFA) accepting(set map[position]struct{}) bool {
	for pos := range set {
		if pos.index == len(n.patterns[pos.pattern]) {
			return true
		}
	}
	return false
}

// move computes the successor position set for one input byte.
func (n *patternNFA) move(set map[position]struct{}, b byte) map[position]struct{} {
	var out map[position]struct{}
	for pos := range set {
		tokens := n.patterns[pos.pattern]
		if pos.index >= len(tokens) {
			continue
		}
		var next position
		switch tok := tokens[pos.index]; tok.kind {
		case tokenLiteral:
			if tok.b != b {
				continue
			}
			next = position{pattern: pos.pattern, index: pos.index + 1}
		case tokenAnyChar:
			next = position{pattern: pos.pattern, index: pos.index + 1}
		case tokenAnyRun:
			// The run consumes the byte and keeps matching.
			next = pos
		}
		if out == nil {
			out = make(map[position]struct{})
		}
		n.closure(next, out)
	}
	return out
}
