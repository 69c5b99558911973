package authz

import (
	"sort"

	"github.com/crestline/authz/automaton"
)

// Privilege is a named grant of access to some part of the cluster action
// namespace. Privileges do not answer checks themselves; they contribute to a
// Permission through a Builder.
type Privilege interface {
	Name() string
	// BuildPermission contributes this privilege to the builder and returns
	// the builder for chaining.
	BuildPermission(builder *Builder) *Builder
}

// AutomatonPrivilege is a Privilege whose grant is fully described by an
// action automaton.
type AutomatonPrivilege interface {
	Privilege
	Automaton() *automaton.Automaton
}

// ActionPredicate reports whether an action name is within a privilege's
// action namespace.
type ActionPredicate func(action string) bool

// RequestPredicate is the data-dependent condition of a configurable
// privilege. It must fail closed: unrecognized request types or missing
// identity fields deny, they never error.
type RequestPredicate func(request Request, authentication Authentication) bool

// ConfigurablePrivilege is a privilege whose grant additionally depends on
// the request body and the requester's identity. The automaton narrows which
// actions the request predicate is consulted for.
type ConfigurablePrivilege interface {
	AutomatonPrivilege
	RequestPredicate() RequestPredicate
	// Equal reports definitional equality with another configurable
	// privilege. Permission implication between configurable privileges is
	// decided by this, not by comparing predicate behavior.
	Equal(other ConfigurablePrivilege) bool
}

// FixedPrivilege is a named privilege backed by a precompiled action
// automaton. The entire builtin catalog consists of these.
type FixedPrivilege struct {
	name      string
	automaton *automaton.Automaton
}

// NewFixedPrivilege compiles the given action patterns into a named
// privilege.
func NewFixedPrivilege(name string, patterns ...string) (*FixedPrivilege, error) {
	a, err := automaton.Compile(patterns...)
	if err != nil {
		return nil, err
	}
	return &FixedPrivilege{name: name, automaton: a}, nil
}

// FixedPrivilegeFromAutomaton wraps an already compiled automaton. It is how
// catalog entries derived algebraically from other automatons are built.
func FixedPrivilegeFromAutomaton(name string, a *automaton.Automaton) *FixedPrivilege {
	return &FixedPrivilege{name: name, automaton: a}
}

func (p *FixedPrivilege) Name() string { return p.name }

func (p *FixedPrivilege) Automaton() *automaton.Automaton { return p.automaton }

func (p *FixedPrivilege) BuildPermission(builder *Builder) *Builder {
	return builder.Add(p)
}

// ActionPrivilege is a named privilege defined by raw allow and deny pattern
// lists, as found in custom role definitions. The deny patterns are
// subtracted from the allow patterns when the permission is built. Empty
// allow and deny lists grant nothing.
type ActionPrivilege struct {
	name    string
	allowed []string
	denied  []string
}

func NewActionPrivilege(name string, allowed []string, denied []string) *ActionPrivilege {
	return &ActionPrivilege{
		name:    name,
		allowed: sortedCopy(allowed),
		denied:  sortedCopy(denied),
	}
}

func (p *ActionPrivilege) Name() string { return p.name }

// AllowedPatterns returns the allow patterns, sorted.
func (p *ActionPrivilege) AllowedPatterns() []string { return sortedCopy(p.allowed) }

// DeniedPatterns returns the deny patterns, sorted.
func (p *ActionPrivilege) DeniedPatterns() []string { return sortedCopy(p.denied) }

func (p *ActionPrivilege) BuildPermission(builder *Builder) *Builder {
	return builder.AddPatterns(p, p.allowed, p.denied)
}

func sortedCopy(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	sort.Strings(out)
	return out
}
