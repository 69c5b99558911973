// Package automaton compiles glob patterns over namespaced action names into
// deterministic finite acceptors, and provides the language algebra the
// permission engine is built on: union, difference, and language inclusion.
//
// Automatons are immutable once constructed and safe for unsynchronized
// concurrent reads. Every constructor returns a minimal automaton with states
// numbered in breadth-first order, so two automatons accepting the same
// language are structurally identical regardless of how they were built.
package automaton

import (
	"encoding/binary"
	"sort"
)

const alphabetSize = 256

// Automaton is a deterministic finite acceptor over byte strings. State 0 is
// the start state. A transition of -1 is a reject; there is no explicit dead
// state.
type Automaton struct {
	accept []bool
	trans  [][]int32
}

var emptyAutomaton = &Automaton{
	accept: []bool{false},
	trans:  [][]int32{newRejectRow()},
}

// Empty returns the automaton accepting no strings. It is the identity for
// Union and the bottom of the SubsetOf order.
func Empty() *Automaton {
	return emptyAutomaton
}

func newRejectRow() []int32 {
	row := make([]int32, alphabetSize)
	for i := range row {
		row[i] = -1
	}
	return row
}

// Compile builds the minimal automaton accepting the union of the given glob
// patterns. An empty pattern set compiles to Empty, not an error. The result
// depends only on the accepted language, never on pattern order.
func Compile(patterns ...string) (*Automaton, error) {
	if len(patterns) == 0 {
		return Empty(), nil
	}
	nfa := &patternNFA{patterns: make([][]token, 0, len(patterns))}
	for _, p := range patterns {
		tokens, err := parsePattern(p)
		if err != nil {
			return nil, err
		}
		nfa.patterns = append(nfa.patterns, tokens)
	}
	return minimize(determinize(nfa)), nil
}

// MustCompile is Compile for statically known patterns, such as the privilege
// catalog. It panics on a malformed pattern.
func MustCompile(patterns ...string) *Automaton {
	a, err := Compile(patterns...)
	if err != nil {
		panic(err)
	}
	return a
}

// Run reports whether the automaton accepts s. It is linear in len(s).
func (a *Automaton) Run(s string) bool {
	state := int32(0)
	for i := 0; i < len(s); i++ {
		state = a.trans[state][s[i]]
		if state < 0 {
			return false
		}
	}
	return a.accept[state]
}

// IsEmpty reports whether the automaton accepts no strings.
func (a *Automaton) IsEmpty() bool {
	for _, ok := range a.accept {
		if ok {
			return false
		}
	}
	return true
}

// NumStates returns the state count of the minimal form.
func (a *Automaton) NumStates() int {
	return len(a.accept)
}

// SubsetOf reports whether every string accepted by a is accepted by b. It is
// the primitive behind permission implication: a ⊆ b means b is at least as
// permissive as a.
func (a *Automaton) SubsetOf(b *Automaton) bool {
	type pair struct {
		sa int32
		sb int32 // -1 once b has rejected
	}
	seen := map[pair]struct{}{}
	queue := []pair{{0, 0}}
	seen[queue[0]] = struct{}{}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if a.accept[p.sa] && (p.sb < 0 || !b.accept[p.sb]) {
			return false
		}
		for sym := 0; sym < alphabetSize; sym++ {
			ta := a.trans[p.sa][sym]
			if ta < 0 {
				continue
			}
			tb := int32(-1)
			if p.sb >= 0 {
				tb = b.trans[p.sb][sym]
			}
			next := pair{ta, tb}
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return true
}

// SameLanguage reports whether a and b accept exactly the same strings.
func (a *Automaton) SameLanguage(b *Automaton) bool {
	return a.SubsetOf(b) && b.SubsetOf(a)
}

// Union returns the minimal automaton accepting the union of the given
// automatons' languages.
func Union(automatons ...*Automaton) *Automaton {
	switch len(automatons) {
	case 0:
		return Empty()
	case 1:
		return automatons[0]
	}

	type substate struct {
		aut   int
		state int32
	}
	key := func(set []substate) string {
		buf := make([]byte, 0, len(set)*4)
		for _, s := range set {
			buf = binary.AppendVarint(buf, int64(s.aut))
			buf = binary.AppendVarint(buf, int64(s.state))
		}
		return string(buf)
	}

	start := make([]substate, len(automatons))
	for i := range automatons {
		start[i] = substate{aut: i}
	}

	result := &Automaton{}
	index := map[string]int32{key(start): 0}
	pending := [][]substate{start}
	for len(pending) > 0 {
		set := pending[0]
		pending = pending[1:]

		accepting := false
		for _, s := range set {
			if automatons[s.aut].accept[s.state] {
				accepting = true
				break
			}
		}
		result.accept = append(result.accept, accepting)

		row := newRejectRow()
		for sym := 0; sym < alphabetSize; sym++ {
			var next []substate
			for _, s := range set {
				if t := automatons[s.aut].trans[s.state][sym]; t >= 0 {
					next = append(next, substate{aut: s.aut, state: t})
				}
			}
			if next == nil {
				continue
			}
			k := key(next)
			id, ok := index[k]
			if !ok {
				id = int32(len(index))
				index[k] = id
				pending = append(pending, next)
			}
			row[sym] = id
		}
		result.trans = append(result.trans, row)
	}
	return minimize(result)
}

// Minus returns the minimal automaton accepting the language of a with the
// language of b removed.
func Minus(a, b *Automaton) *Automaton {
	type pair struct {
		sa int32
		sb int32 // -1 once b has rejected
	}
	result := &Automaton{}
	index := map[pair]int32{{0, 0}: 0}
	pending := []pair{{0, 0}}
	for len(pending) > 0 {
		p := pending[0]
		pending = pending[1:]

		accepting := a.accept[p.sa] && (p.sb < 0 || !b.accept[p.sb])
		result.accept = append(result.accept, accepting)

		row := newRejectRow()
		for sym := 0; sym < alphabetSize; sym++ {
			ta := a.trans[p.sa][sym]
			if ta < 0 {
				continue
			}
			tb := int32(-1)
			if p.sb >= 0 {
				tb = b.trans[p.sb][sym]
			}
			next := pair{ta, tb}
			id, ok := index[next]
			if !ok {
				id = int32(len(index))
				index[next] = id
				pending = append(pending, next)
			}
			row[sym] = id
		}
		result.trans = append(result.trans, row)
	}
	return minimize(result)
}

// determinize runs the subset construction over the pattern NFA, exploring
// states breadth-first with symbols in ascending order.
func determinize(nfa *patternNFA) *Automaton {
	key := func(set map[position]struct{}) string {
		ps := make([]position, 0, len(set))
		for p := range set {
			ps = append(ps, p)
		}
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].pattern != ps[j].pattern {
				return ps[i].pattern < ps[j].pattern
			}
			return ps[i].index < ps[j].index
		})
		buf := make([]byte, 0, len(ps)*4)
		for _, p := range ps {
			buf = binary.AppendVarint(buf, int64(p.pattern))
			buf = binary.AppendVarint(buf, int64(p.index))
		}
		return string(buf)
	}

	start := nfa.start()
	result := &Automaton{}
	index := map[string]int32{key(start): 0}
	pending := []map[position]struct{}{start}
	for len(pending) > 0 {
		set := pending[0]
		pending = pending[1:]

		result.accept = append(result.accept, nfa.accepting(set))

		row := newRejectRow()
		for sym := 0; sym < alphabetSize; sym++ {
			next := nfa.move(set, byte(sym))
			if next == nil {
				continue
			}
			k := key(next)
			id, ok := index[k]
			if !ok {
				id = int32(len(index))
				index[k] = id
				pending = append(pending, next)
			}
			row[sym] = id
		}
		result.trans = append(result.trans, row)
	}
	return result
}

// minimize collapses behaviorally equivalent states by partition refinement
// and renumbers the result breadth-first, yielding the canonical minimal
// form. States that can never reach acceptance merge into a virtual dead
// state and are dropped.
func minimize(a *Automaton) *Automaton {
	n := len(a.accept)
	dead := n // virtual, non-accepting, loops on every symbol

	class := make([]int, n+1)
	numClasses := 1
	for i := 0; i < n; i++ {
		if a.accept[i] {
			class[i] = 1
			numClasses = 2
		}
	}

	for {
		signatures := make(map[string]int, numClasses)
		next := make([]int, n+1)
		for s := 0; s <= n; s++ {
			key := make([]byte, 0, (alphabetSize+1)*2)
			key = binary.AppendVarint(key, int64(class[s]))
			for sym := 0; sym < alphabetSize; sym++ {
				target := dead
				if s != dead {
					if t := a.trans[s][sym]; t >= 0 {
						target = int(t)
					}
				}
				key = binary.AppendVarint(key, int64(class[target]))
			}
			id, ok := signatures[string(key)]
			if !ok {
				id = len(signatures)
				signatures[string(key)] = id
			}
			next[s] = id
		}
		if len(signatures) == numClasses {
			class = next
			break
		}
		class, numClasses = next, len(signatures)
	}

	deadClass := class[dead]
	if class[0] == deadClass {
		return Empty()
	}

	// One representative state per surviving class.
	representative := make(map[int]int, numClasses)
	for s := 0; s < n; s++ {
		if class[s] == deadClass {
			continue
		}
		if _, ok := representative[class[s]]; !ok {
			representative[class[s]] = s
		}
	}

	// Breadth-first renumbering from the start class for a canonical order.
	order := map[int]int32{class[0]: 0}
	queue := []int{class[0]}
	result := &Automaton{}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		rep := representative[c]

		result.accept = append(result.accept, a.accept[rep])
		row := newRejectRow()
		for sym := 0; sym < alphabetSize; sym++ {
			t := a.trans[rep][sym]
			if t < 0 || class[t] == deadClass {
				continue
			}
			id, ok := order[class[t]]
			if !ok {
				id = int32(len(order))
				order[class[t]] = id
				queue = append(queue, class[t])
			}
			row[sym] = id
		}
		result.trans = append(result.trans, row)
	}
	return result
}
